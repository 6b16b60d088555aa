package idmap

import (
	"fmt"
	"sort"
)

// ExplicitMapping pins a single container ID to a single host ID within
// one namespace.
type ExplicitMapping struct {
	ContainerID int
	HostID      int
}

type DuplicateMappingError struct {
	Namespace   Namespace
	ContainerID int
}

func (e DuplicateMappingError) Error() string {
	return fmt.Sprintf("duplicate %s mapping for container ID %d", e.Namespace, e.ContainerID)
}

// Collector gathers explicit mappings for both namespaces and rejects
// duplicates. A full Spec contributes to both namespaces; a ScopedSpec
// contributes only to the namespace it was collected for.
type Collector struct {
	users  map[int]int
	groups map[int]int
}

func NewCollector() *Collector {
	return &Collector{
		users:  map[int]int{},
		groups: map[int]int{},
	}
}

func (c *Collector) AddSpec(spec Spec) error {
	err := c.add(User, spec.ContainerUID, spec.HostUID)
	if err != nil {
		return err
	}

	return c.add(Group, spec.ContainerGID, spec.HostGID)
}

func (c *Collector) AddUser(spec ScopedSpec) error {
	return c.add(User, spec.ContainerID, spec.HostID)
}

func (c *Collector) AddGroup(spec ScopedSpec) error {
	return c.add(Group, spec.ContainerID, spec.HostID)
}

// Users returns the collected user-namespace mappings sorted by
// container ID.
func (c *Collector) Users() []ExplicitMapping {
	return collect(c.users)
}

// Groups returns the collected group-namespace mappings sorted by
// container ID.
func (c *Collector) Groups() []ExplicitMapping {
	return collect(c.groups)
}

func (c *Collector) add(namespace Namespace, containerID int, hostID int) error {
	mappings := c.users
	if namespace == Group {
		mappings = c.groups
	}

	if _, found := mappings[containerID]; found {
		return DuplicateMappingError{Namespace: namespace, ContainerID: containerID}
	}

	mappings[containerID] = hostID

	return nil
}

func collect(mappings map[int]int) []ExplicitMapping {
	collected := make([]ExplicitMapping, 0, len(mappings))
	for containerID, hostID := range mappings {
		collected = append(collected, ExplicitMapping{
			ContainerID: containerID,
			HostID:      hostID,
		})
	}

	sort.Slice(collected, func(i, j int) bool {
		return collected[i].ContainerID < collected[j].ContainerID
	})

	return collected
}
