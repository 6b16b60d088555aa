package idmap

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is one fully resolved mapping specification, as given either as a
// positional argument or through the --ug flag. A single spec contributes
// one explicit mapping to the user namespace and one to the group
// namespace.
//
// The input grammar is lxc_uid[:lxc_gid][=host_uid[:host_gid]]. Omitted
// components are filled in from the ones given:
//
//	lxc_gid  defaults to lxc_uid
//	host_gid defaults to host_uid when a host part is given without one
//	the whole host pair defaults to the container pair when "=" is absent
type Spec struct {
	ContainerUID int
	ContainerGID int
	HostUID      int
	HostGID      int
}

// ScopedSpec is a mapping specification scoped to a single namespace, as
// given through the -u or -g flags. The grammar is id[=host_id]; an
// omitted host_id defaults to id.
type ScopedSpec struct {
	ContainerID int
	HostID      int
}

type MalformedSpecError struct {
	Spec string
	Err  error
}

func (e MalformedSpecError) Error() string {
	return fmt.Sprintf(`%s while parsing mapping spec "%s"`, e.Err, e.Spec)
}

// ParseSpec parses the lxc_uid[:lxc_gid][=host_uid[:host_gid]] form and
// fills in the omitted components.
func ParseSpec(raw string) (Spec, error) {
	containerPart, hostPart, hasHost, err := splitSpec(raw)
	if err != nil {
		return Spec{}, MalformedSpecError{Spec: raw, Err: err}
	}

	containerUID, containerGID, hasContainerGID, err := parseIDPair(containerPart)
	if err != nil {
		return Spec{}, MalformedSpecError{Spec: raw, Err: err}
	}

	if !hasContainerGID {
		containerGID = containerUID
	}

	hostUID := containerUID
	hostGID := containerGID

	if hasHost {
		var hasHostGID bool
		hostUID, hostGID, hasHostGID, err = parseIDPair(hostPart)
		if err != nil {
			return Spec{}, MalformedSpecError{Spec: raw, Err: err}
		}

		if !hasHostGID {
			hostGID = hostUID
		}
	}

	return Spec{
		ContainerUID: containerUID,
		ContainerGID: containerGID,
		HostUID:      hostUID,
		HostGID:      hostGID,
	}, nil
}

// ParseScopedSpec parses the id[=host_id] form used by -u and -g.
func ParseScopedSpec(raw string) (ScopedSpec, error) {
	containerPart, hostPart, hasHost, err := splitSpec(raw)
	if err != nil {
		return ScopedSpec{}, MalformedSpecError{Spec: raw, Err: err}
	}

	containerID, err := parseID(containerPart)
	if err != nil {
		return ScopedSpec{}, MalformedSpecError{Spec: raw, Err: err}
	}

	hostID := containerID
	if hasHost {
		hostID, err = parseID(hostPart)
		if err != nil {
			return ScopedSpec{}, MalformedSpecError{Spec: raw, Err: err}
		}
	}

	return ScopedSpec{ContainerID: containerID, HostID: hostID}, nil
}

func splitSpec(raw string) (container string, host string, hasHost bool, err error) {
	switch parts := strings.Split(raw, "="); len(parts) {
	case 1:
		return parts[0], "", false, nil
	case 2:
		if parts[1] == "" {
			return "", "", false, fmt.Errorf("missing host IDs after \"=\"")
		}
		return parts[0], parts[1], true, nil
	default:
		return "", "", false, fmt.Errorf("more than one \"=\"")
	}
}

func parseIDPair(raw string) (first int, second int, hasSecond bool, err error) {
	switch parts := strings.Split(raw, ":"); len(parts) {
	case 1:
		first, err = parseID(parts[0])
		return first, 0, false, err
	case 2:
		first, err = parseID(parts[0])
		if err != nil {
			return 0, 0, false, err
		}
		second, err = parseID(parts[1])
		return first, second, true, err
	default:
		return 0, 0, false, fmt.Errorf("more than one \":\"")
	}
}

func parseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid ID \"%s\"", raw)
	}

	if id < 0 {
		return 0, fmt.Errorf("negative ID %d", id)
	}

	return id, nil
}
