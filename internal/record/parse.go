package record

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/confidence"
)

// maxExactID is the largest integer a float64 id can carry without rounding.
const maxExactID = 1 << 53

// intValue resolves raw to an integer id. Whole numbers, numeric strings and
// embedded objects carrying an "id" are accepted. Integer literals are parsed
// exactly; fractional or float-typed values must stay within float64 precision.
func intValue(raw any) (int, bool) {
	if obj, ok := raw.(map[string]any); ok {
		id, found := FirstPresent(obj, "id", "pk")
		if !found {
			return 0, false
		}
		raw = id
	}
	switch x := raw.(type) {
	case bool:
		return 0, false
	case int:
		return x, true
	case int64:
		return int64ID(x)
	case interface{ Int64() (int64, error) }:
		if n, err := x.Int64(); err == nil {
			return int64ID(n)
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return int64ID(n)
		}
	}

	v, ok := confidence.ParseDecimal(raw)
	if !ok || v != math.Trunc(v) || math.Abs(v) > maxExactID {
		return 0, false
	}
	return int(v), true
}

func int64ID(n int64) (int, bool) {
	if n > math.MaxInt || n < math.MinInt {
		return 0, false
	}
	return int(n), true
}

// optionalInt is intValue for a field alias chain, nil when absent or unparsable.
func optionalInt(raw map[string]any, field Field) *int {
	v, ok := field.Lookup(raw)
	if !ok {
		return nil
	}
	id, ok := intValue(v)
	if !ok {
		return nil
	}
	return &id
}

// textValue returns raw as trimmed text; objects resolve through their "nombre"
// or "name" key.
func textValue(raw any) string {
	switch x := raw.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any:
		if v, ok := FirstPresent(x, "nombre", "name"); ok {
			return textValue(v)
		}
		return ""
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	}
	if v, ok := confidence.ParseDecimal(raw); ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// textOr returns the first non-empty text of field, or def.
func textOr(raw map[string]any, field Field, def string) string {
	for _, key := range field {
		if s := textValue(raw[key]); s != "" {
			return s
		}
	}
	return def
}

// geoPoint reads the latitude/longitude alias chains. Both values must parse
// and be in range, otherwise no point is returned.
func geoPoint(raw map[string]any) *GeoPoint {
	rawLat, ok := Latitude.Lookup(raw)
	if !ok {
		return nil
	}
	rawLon, ok := Longitude.Lookup(raw)
	if !ok {
		return nil
	}
	lat, ok := confidence.ParseDecimal(rawLat)
	if !ok {
		return nil
	}
	lon, ok := confidence.ParseDecimal(rawLon)
	if !ok {
		return nil
	}
	p, _ := NewGeoPoint(lat, lon)
	return p
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// timeValue parses the timestamp formats the backend emits; the zero time
// means unknown.
func timeValue(raw any) time.Time {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseKind maps a backend type label to a Kind. Anything that is not
// explicitly public is personal.
func parseKind(raw any) (Kind, bool) {
	label := foldLabel(textValue(raw))
	switch label {
	case "":
		return KindPersonal, false
	case "publico", "public", "empresa", "empresarial", "company":
		return KindPublic, true
	default:
		return KindPersonal, true
	}
}

// parseStatus maps a backend status label to a Status. A boolean "activo"
// flag is honored when no status label exists.
func parseStatus(raw map[string]any) Status {
	if v, ok := ContainerStatus.Lookup(raw); ok {
		switch foldLabel(textValue(v)) {
		case "activo", "active":
			return StatusActive
		case "mantenimiento", "maintenance":
			return StatusMaintenance
		default:
			return StatusOutOfService
		}
	}
	if active, ok := raw["activo"].(bool); ok && active {
		return StatusActive
	}
	return StatusOutOfService
}
