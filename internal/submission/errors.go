package submission

import (
	"slices"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/backend"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/errors"
)

// Sentinel errors returned by Submit. Match them with errors.Is.
var (
	ErrNoContainer        = errors.NewStd("no container selected")
	ErrNoImage            = errors.NewStd("no image captured")
	ErrSubmissionInFlight = errors.NewStd("a submission is already in progress")
)

// GenericFailureMessage is shown when the backend response carries nothing displayable.
const GenericFailureMessage = "No se pudo registrar la detección. Intenta nuevamente."

// User messages for local validation failures.
const (
	MessageNoContainer = "Selecciona un tacho antes de enviar."
	MessageNoImage     = "Captura o selecciona una imagen antes de enviar."
	MessageImage       = "No se pudo procesar la imagen."
)

// FlattenError turns a failed submission into a message for the user.
//
// A backend body that is a JSON string, or an object with a "detail" string,
// is returned verbatim. A field to message(s) object becomes one
// "field: message" line per field, sorted by field, with list messages joined
// by ", ". Anything else yields GenericFailureMessage.
func FlattenError(err error) string {
	var apiErr *backend.APIError
	if !errors.As(err, &apiErr) || len(apiErr.Body) == 0 {
		return GenericFailureMessage
	}

	var body any
	if json.Unmarshal(apiErr.Body, &body) != nil {
		return GenericFailureMessage
	}

	switch v := body.(type) {
	case string:
		if strings.TrimSpace(v) != "" {
			return v
		}
	case map[string]any:
		if detail, ok := v["detail"].(string); ok && detail != "" {
			return detail
		}
		if msg := flattenFields(v); msg != "" {
			return msg
		}
	case []any:
		if msg := joinMessages(v, "\n"); msg != "" {
			return msg
		}
	}
	return GenericFailureMessage
}

func flattenFields(fields map[string]any) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		var msg string
		switch v := fields[k].(type) {
		case string:
			msg = v
		case []any:
			msg = joinMessages(v, ", ")
		case map[string]any:
			msg = strings.ReplaceAll(flattenFields(v), "\n", "; ")
		}
		if msg != "" {
			lines = append(lines, k+": "+msg)
		}
	}
	return strings.Join(lines, "\n")
}

func joinMessages(items []any, sep string) string {
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			msgs = append(msgs, s)
		}
	}
	return strings.Join(msgs, sep)
}
