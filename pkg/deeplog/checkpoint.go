package deeplog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/schema"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/status"
	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/storage"
)

// checkpointPointer is the small JSON document published at
// "<branch>/_last_checkpoint.json" that tells readers where the newest
// checkpoint for a branch lives and how large it is.
type checkpointPointer struct {
	Version uint64 `json:"version"`
	Size    int64  `json:"size"`
}

// Checkpoint folds every action committed to branchID so far into a
// single Parquet file at the branch's current version, then publishes a
// pointer to it. Readers of GetActions no longer need the commit files
// that predate the checkpoint's version; the caller may delete them,
// but Checkpoint itself never deletes anything.
func (l *Log) Checkpoint(ctx context.Context, branchID string) error {
	actions, version, err := l.GetActions(ctx, branchID, nil)
	if err != nil {
		return err
	}

	mem := memory.NewGoAllocator()
	rb := schema.NewRecordBuilder(mem)
	defer rb.Release()

	for _, a := range actions {
		if err := schema.AppendAction(rb, a); err != nil {
			return fmt.Errorf("deeplog: checkpoint encode: %w", err)
		}
	}
	schema.AppendVersion(rb, version)

	rec := rb.NewRecord()
	defer rec.Release()

	table := array.NewTableFromRecords(schema.Schema(), []arrow.Record{rec})
	defer table.Release()

	rowGroupLength := l.checkpointRowGroupLength
	if rowGroupLength <= 0 {
		rowGroupLength = table.NumRows()
	}

	var buf bytes.Buffer
	writerProps := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Snappy))
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	if err := pqarrow.WriteTable(table, &buf, rowGroupLength, writerProps, arrowProps); err != nil {
		return fmt.Errorf("deeplog: write checkpoint parquet: %w", err)
	}

	dataPath := l.checkpointDataPath(branchID, version)
	if err := l.store.Put(ctx, dataPath, bytes.NewReader(buf.Bytes()), storage.Overwrite); err != nil {
		return fmt.Errorf("deeplog: publish checkpoint data: %w", err)
	}

	pointer := checkpointPointer{Version: version, Size: int64(buf.Len())}
	pointerBytes, err := json.Marshal(pointer)
	if err != nil {
		return err
	}
	if err := l.store.Put(ctx, l.checkpointPointerPath(branchID), bytes.NewReader(pointerBytes), storage.Overwrite); err != nil {
		return fmt.Errorf("deeplog: publish checkpoint pointer: %w", err)
	}

	l.log.Debug("checkpointed", zap.String("branch_id", branchID), zap.Uint64("version", version), zap.Int("bytes", buf.Len()))
	return nil
}

func (l *Log) readCheckpointPointer(ctx context.Context, branchID string) (uint64, bool, error) {
	has, err := l.store.Has(ctx, l.checkpointPointerPath(branchID))
	if err != nil {
		return 0, false, err
	}
	if !has {
		return 0, false, nil
	}
	raw, err := storage.GetBytes(ctx, l.store, l.checkpointPointerPath(branchID))
	if err != nil {
		return 0, false, err
	}
	var pointer checkpointPointer
	if err := json.Unmarshal(raw, &pointer); err != nil {
		return 0, false, status.ErrCorruptLog.Wrap(err)
	}
	return pointer.Version, true, nil
}

func (l *Log) readCheckpointRecord(ctx context.Context, branchID string, version uint64) (arrow.Record, error) {
	raw, err := storage.GetBytes(ctx, l.store, l.checkpointDataPath(branchID, version))
	if err != nil {
		return nil, fmt.Errorf("deeplog: read checkpoint data: %w", err)
	}

	pf, err := file.NewParquetReader(bytes.NewReader(raw))
	if err != nil {
		return nil, status.ErrCorruptLog.Wrap(err)
	}
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.NewGoAllocator())
	if err != nil {
		return nil, status.ErrCorruptLog.Wrap(err)
	}

	table, err := reader.ReadTable(ctx)
	if err != nil {
		return nil, status.ErrCorruptLog.Wrap(err)
	}
	defer table.Release()

	tr := array.NewTableReader(table, table.NumRows())
	defer tr.Release()
	if !tr.Next() {
		return nil, status.ErrCorruptLog.Wrap(fmt.Errorf("checkpoint %s has no rows", l.checkpointDataPath(branchID, version)))
	}
	rec := tr.Record()
	rec.Retain()
	return rec, nil
}
