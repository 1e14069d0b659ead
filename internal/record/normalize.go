package record

import (
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/confidence"
	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/logger"
)

// NormalizeContainer converts one raw container. ok is false when the record
// has no valid integer id.
func NormalizeContainer(raw map[string]any) (ContainerRecord, bool) {
	id := optionalInt(raw, ContainerID)
	if id == nil {
		return ContainerRecord{}, false
	}

	c := ContainerRecord{
		ID:       *id,
		OwnerID:  optionalInt(raw, ContainerOwner),
		Location: geoPoint(raw),
		Status:   parseStatus(raw),
		Name:     textOr(raw, ContainerName, Placeholder),
		Code:     textOr(raw, ContainerCode, Placeholder),
	}
	if v, ok := ContainerKind.Lookup(raw); ok {
		c.Kind, _ = parseKind(v)
	}
	if c.Kind == KindPublic {
		c.OrganizationName = textOr(raw, ContainerOrganization, "")
	}
	return c, true
}

// NormalizeContainers converts a raw list, dropping and logging records
// without a valid id. The result is never nil.
func NormalizeContainers(raws []map[string]any) []ContainerRecord {
	log := logger.Global().Module("record")
	out := make([]ContainerRecord, 0, len(raws))
	for i, raw := range raws {
		c, ok := NormalizeContainer(raw)
		if !ok {
			log.Warn("dropping container without valid id",
				logger.Int("index", i),
				logger.Any("id", raw["id"]))
			continue
		}
		out = append(out, c)
	}
	return out
}

// NormalizeDetection converts one raw detection. ok is false when the record
// has no valid integer id.
func NormalizeDetection(raw map[string]any) (DetectionRecord, bool) {
	id := optionalInt(raw, DetectionID)
	if id == nil {
		return DetectionRecord{}, false
	}

	d := DetectionRecord{
		ID:            *id,
		Label:         textOr(raw, DetectionCategory, ""),
		Location:      geoPoint(raw),
		OwnerUserID:   optionalInt(raw, DetectionOwner),
		ImageRef:      textOr(raw, DetectionImage, ""),
		ContainerKind: detectionKind(raw),
	}
	d.Category = ClassifyCategory(d.Label)

	if v, ok := DetectionConfidence.Lookup(raw); ok {
		d.Confidence = confidence.Resolve(v)
	}
	if v, ok := DetectionRegisteredAt.Lookup(raw); ok {
		d.RegisteredAt = timeValue(v)
	}
	if v, ok := DetectionContainer.Lookup(raw); ok {
		if cid, ok := intValue(v); ok {
			d.ContainerID = &cid
		}
	}
	return d, true
}

// detectionKind reads the denormalized container type, from the detection
// itself or from an embedded container object.
func detectionKind(raw map[string]any) *Kind {
	if v, ok := DetectionContainerKind.Lookup(raw); ok {
		if k, ok := parseKind(v); ok {
			return &k
		}
	}
	if v, ok := DetectionContainer.Lookup(raw); ok {
		if obj, isObj := v.(map[string]any); isObj {
			if kv, ok := ContainerKind.Lookup(obj); ok {
				if k, ok := parseKind(kv); ok {
					return &k
				}
			}
		}
	}
	return nil
}

// NormalizeDetections converts a raw list, dropping and logging records
// without a valid id. The result is never nil.
func NormalizeDetections(raws []map[string]any) []DetectionRecord {
	log := logger.Global().Module("record")
	out := make([]DetectionRecord, 0, len(raws))
	for i, raw := range raws {
		d, ok := NormalizeDetection(raw)
		if !ok {
			log.Warn("dropping detection without valid id",
				logger.Int("index", i),
				logger.Any("id", raw["id"]))
			continue
		}
		out = append(out, d)
	}
	return out
}
