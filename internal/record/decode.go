package record

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
)

// DecodeList decodes a list response. Both a bare JSON array and a paginated
// {"results": [...]} envelope are accepted. Numbers are kept as json.Number so
// ids never lose precision before normalization. Non-object items are skipped.
func DecodeList(body []byte) ([]map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.New(err).
			Component("record").
			Category(errors.CategoryFileParsing).
			Context("operation", "decode-list").
			Build()
	}

	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		results, ok := v["results"].([]any)
		if !ok {
			return nil, errors.Newf("response object has no results list").
				Component("record").
				Category(errors.CategoryFileParsing).
				Context("operation", "decode-list").
				Build()
		}
		items = results
	case nil:
		return []map[string]any{}, nil
	default:
		return nil, errors.Newf("unexpected list response of type %T", doc).
			Component("record").
			Category(errors.CategoryFileParsing).
			Context("operation", "decode-list").
			Build()
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, nil
}
