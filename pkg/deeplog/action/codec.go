package action

import (
	"encoding/json"
	"io"

	jsoniter "github.com/json-iterator/go"

	"github.com/ScorpionBytes/deeplake-AI-DB/pkg/deeplog/action/status"
)

// jsonAPI mirrors the teacher's own choice (pkg/model/types.go) of
// json-iterator over encoding/json: same wire format, faster on the hot
// path of decoding a whole branch's commit history.
var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeJSON produces the textual encoding of a single action: a JSON
// object with exactly one key, the action's tag, whose value is the
// field object. Optional fields are emitted as explicit null rather
// than omitted.
func EncodeJSON(a Action) ([]byte, error) {
	return jsonAPI.Marshal(map[string]Action{string(a.Tag()): a})
}

// DecodeStream parses a byte stream of concatenated JSON objects with no
// enclosing array and no separators — the on-disk commit-artifact
// format — into the ordered list of actions it contains. It is
// whitespace-tolerant: json.Decoder (and jsoniter's compatible decoder)
// already understands a sequence of top-level JSON values with no
// delimiter between them, so this needs no custom tokenizer.
func DecodeStream(r io.Reader) ([]Action, error) {
	dec := jsonAPI.NewDecoder(r)
	var actions []Action
	for {
		var row map[string]json.RawMessage
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		a, err := decodeRow(row)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// DecodeOne parses a single "{tag: {...}}" JSON object.
func DecodeOne(b []byte) (Action, error) {
	var row map[string]json.RawMessage
	if err := jsonAPI.Unmarshal(b, &row); err != nil {
		return nil, err
	}
	return decodeRow(row)
}

func decodeRow(row map[string]json.RawMessage) (Action, error) {
	for tag, raw := range row {
		switch Tag(tag) {
		case TagProtocol:
			var v Protocol
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return &v, nil
		case TagMetadata:
			var v Metadata
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return &v, nil
		case TagBranch:
			var v Branch
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return &v, nil
		case TagAdd:
			var v Add
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return &v, nil
		case TagTensor:
			var v Tensor
			if err := jsonAPI.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			return &v, nil
		default:
			return nil, status.ErrUnknownAction
		}
	}
	return nil, status.ErrMissingField
}
