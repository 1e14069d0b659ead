package record

// Field lists the source keys a target field may be read from, in priority order.
type Field []string

// Container field aliases.
var (
	ContainerID           = Field{"id", "pk", "id_tacho"}
	ContainerOwner        = Field{"owner", "ownerId", "user", "userId", "manager", "managerId", "propietario", "usuario", "usuario_id"}
	ContainerKind         = Field{"tipo", "type", "kind", "tipo_tacho"}
	ContainerStatus       = Field{"estado", "status"}
	ContainerName         = Field{"nombre", "name"}
	ContainerCode         = Field{"codigo", "code"}
	ContainerOrganization = Field{"empresa_nombre", "organizacion_nombre", "organizationName", "empresa"}
)

// Detection field aliases.
var (
	DetectionID            = Field{"id", "pk"}
	DetectionContainer     = Field{"tacho", "container", "tacho_id", "containerId"}
	DetectionContainerKind = Field{"tacho_tipo", "tipo_tacho", "containerType"}
	DetectionCategory      = Field{"clasificacion", "classification", "clase_detectada", "detectedClass", "nombre", "name"}
	DetectionConfidence    = Field{"confianza_ia", "confianza", "confidence", "score"}
	DetectionRegisteredAt  = Field{"fecha_deteccion", "created_at", "fecha", "registeredAt", "timestamp"}
	DetectionOwner         = Field{"usuario", "user", "userId", "owner", "ownerId", "usuario_id"}
	DetectionImage         = Field{"imagen", "image", "imageUrl", "imagen_url"}
)

// Coordinate aliases shared by containers and detections.
var (
	Latitude  = Field{"ubicacion_lat", "latitude", "latitud", "lat"}
	Longitude = Field{"ubicacion_lon", "longitude", "longitud", "lon", "lng"}
)

// FirstPresent returns the value of the first key in keys that is present in
// raw with a non-null value.
func FirstPresent(raw map[string]any, keys ...string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// Lookup is FirstPresent over the field's keys.
func (f Field) Lookup(raw map[string]any) (any, bool) {
	return FirstPresent(raw, f...)
}
