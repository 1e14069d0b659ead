// Package ownership partitions containers and detections into the Personal,
// Company and Public groups relative to the current user.
package ownership

import (
	"slices"

	"github.com/Erick5933/ecotachostec-mobile-sub000/internal/record"
)

// Group is an ownership group.
type Group int

const (
	GroupNone Group = iota
	GroupPersonal
	GroupCompany
	GroupPublic
)

func (g Group) String() string {
	switch g {
	case GroupPersonal:
		return "personal"
	case GroupCompany:
		return "company"
	case GroupPublic:
		return "public"
	default:
		return "none"
	}
}

// IDSet is a set of container ids.
type IDSet map[int]struct{}

// Contains reports whether id is in the set.
func (s IDSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Partition holds the container id-sets of one load.
//
// Personal and Public never intersect; Company is a subset of Public.
type Partition struct {
	Personal IDSet
	Company  IDSet
	Public   IDSet
	known    IDSet
}

// Classify partitions containers relative to currentUserID. A nil user owns
// nothing, so Personal and Company are empty.
func Classify(containers []record.ContainerRecord, currentUserID *int) Partition {
	p := Partition{
		Personal: IDSet{},
		Company:  IDSet{},
		Public:   IDSet{},
		known:    make(IDSet, len(containers)),
	}

	for _, c := range containers {
		p.known[c.ID] = struct{}{}
		owned := currentUserID != nil && c.OwnerID != nil && *c.OwnerID == *currentUserID

		switch c.Kind {
		case record.KindPublic:
			p.Public[c.ID] = struct{}{}
			if owned {
				p.Company[c.ID] = struct{}{}
			}
		default:
			if owned {
				p.Personal[c.ID] = struct{}{}
			}
		}
	}
	return p
}

// Known reports whether the container id was part of the classified set.
func (p Partition) Known(containerID int) bool {
	return p.known.Contains(containerID)
}

// GroupOf returns the most specific group of a container: Personal, then
// Company, then Public, else GroupNone.
func (p Partition) GroupOf(containerID int) Group {
	switch {
	case p.Personal.Contains(containerID):
		return GroupPersonal
	case p.Company.Contains(containerID):
		return GroupCompany
	case p.Public.Contains(containerID):
		return GroupPublic
	default:
		return GroupNone
	}
}

// DetectionGroups holds detections per group. A detection may appear in more
// than one group, e.g. the user's own detection in a public container.
type DetectionGroups struct {
	Personal []record.DetectionRecord
	Company  []record.DetectionRecord
	Public   []record.DetectionRecord
}

// GroupDetections assigns detections to groups.
//
// A detection that references a container missing from the partition is
// excluded from every group. Otherwise it is Personal when the current user
// registered it or its container is personal, Company when its container is
// in Company, and Public when its container is public or the detection itself
// carries a public container type.
func (p Partition) GroupDetections(detections []record.DetectionRecord, currentUserID *int) DetectionGroups {
	groups := DetectionGroups{
		Personal: []record.DetectionRecord{},
		Company:  []record.DetectionRecord{},
		Public:   []record.DetectionRecord{},
	}

	for _, d := range detections {
		if d.ContainerID != nil && !p.Known(*d.ContainerID) {
			continue
		}

		directMatch := currentUserID != nil && d.OwnerUserID != nil && *d.OwnerUserID == *currentUserID
		inSet := func(set IDSet) bool {
			return d.ContainerID != nil && set.Contains(*d.ContainerID)
		}

		if directMatch || inSet(p.Personal) {
			groups.Personal = append(groups.Personal, d)
		}
		if inSet(p.Company) {
			groups.Company = append(groups.Company, d)
		}
		if inSet(p.Public) || (d.ContainerKind != nil && *d.ContainerKind == record.KindPublic) {
			groups.Public = append(groups.Public, d)
		}
	}
	return groups
}
