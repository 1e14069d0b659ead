package submission

import (
	"strconv"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/backend"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/confidence"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// Precision the backend schema accepts.
const (
	confidencePlaces = 2
	coordinatePlaces = 6
)

// Payload is a detection ready to upload, with values already rounded.
type Payload struct {
	ContainerID       int
	UserID            *int
	Category          record.Category
	ConfidencePercent float64 // 0-100, two decimals
	Latitude          *float64
	Longitude         *float64
}

// BuildPayload normalizes the category, converts confidence to a rounded
// percentage and rounds the coordinates. location may be nil.
func BuildPayload(containerID int, userID *int, label string, rawConfidence any, location *record.GeoPoint) Payload {
	p := Payload{
		ContainerID:       containerID,
		UserID:            userID,
		Category:          record.ClassifyCategory(label),
		ConfidencePercent: confidence.Round(confidence.Percent(confidence.Resolve(rawConfidence)), confidencePlaces),
	}
	if location != nil {
		lat := confidence.Round(location.Latitude, coordinatePlaces)
		lon := confidence.Round(location.Longitude, coordinatePlaces)
		p.Latitude, p.Longitude = &lat, &lon
	}
	return p
}

// HasLocation reports whether coordinates are attached.
func (p Payload) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Fields returns the multipart form fields in the order the backend documents them.
func (p Payload) Fields() []backend.FormField {
	fields := []backend.FormField{{Name: "tacho", Value: strconv.Itoa(p.ContainerID)}}
	if p.UserID != nil {
		fields = append(fields, backend.FormField{Name: "usuario", Value: strconv.Itoa(*p.UserID)})
	}
	fields = append(fields,
		backend.FormField{Name: "clasificacion", Value: string(p.Category)},
		backend.FormField{Name: "confianza_ia", Value: strconv.FormatFloat(p.ConfidencePercent, 'f', confidencePlaces, 64)},
	)
	if p.HasLocation() {
		fields = append(fields,
			backend.FormField{Name: "ubicacion_lat", Value: strconv.FormatFloat(*p.Latitude, 'f', coordinatePlaces, 64)},
			backend.FormField{Name: "ubicacion_lon", Value: strconv.FormatFloat(*p.Longitude, 'f', coordinatePlaces, 64)},
		)
	}
	return append(fields,
		backend.FormField{Name: "procesado", Value: "true"},
		backend.FormField{Name: "activo", Value: "true"},
	)
}

// Upload pairs the payload fields with a prepared image file.
func (p Payload) Upload(imagePath string) backend.DetectionUpload {
	return backend.DetectionUpload{Fields: p.Fields(), ImagePath: imagePath}
}
