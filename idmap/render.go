package idmap

import (
	"fmt"
	"strings"
)

// SubordinateEntry is one line of the host's subordinate-ID registry
// (/etc/subuid or /etc/subgid). The container is created by root, so root
// must be delegated every explicitly mapped host ID.
type SubordinateEntry struct {
	Owner  string
	HostID int
	Length int
}

func (e SubordinateEntry) String() string {
	return fmt.Sprintf("%s:%d:%d", e.Owner, e.HostID, e.Length)
}

// SubordinateEntries returns one root-owned entry per exact record, in
// partition order.
func SubordinateEntries(records []RangeRecord) []SubordinateEntry {
	entries := []SubordinateEntry{}
	for _, record := range records {
		if record.Kind != Exact {
			continue
		}

		entries = append(entries, SubordinateEntry{
			Owner:  "root",
			HostID: record.HostStart,
			Length: 1,
		})
	}

	return entries
}

// RenderIDMapLines renders one lxc.idmap configuration line per record,
// in partition order.
func RenderIDMapLines(namespace Namespace, records []RangeRecord) string {
	var lines strings.Builder
	for _, record := range records {
		fmt.Fprintf(&lines, "lxc.idmap: %s %d %d %d\n",
			namespace.Letter(),
			record.ContainerStart,
			record.HostStart,
			record.Length,
		)
	}

	return lines.String()
}

// RenderSubordinateLines renders the registry lines for the given
// entries.
func RenderSubordinateLines(entries []SubordinateEntry) string {
	var lines strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&lines, "%s\n", entry)
	}

	return lines.String()
}

// RenderAll produces the combined annotated document: the container's
// ID-map configuration block (user lines before group lines) followed by
// the subordinate-UID and subordinate-GID registry blocks.
func RenderAll(users []RangeRecord, groups []RangeRecord) string {
	var out strings.Builder

	out.WriteString("\n# Add to /etc/pve/lxc/<container_id>.conf:\n")
	out.WriteString(RenderIDMapLines(User, users))
	out.WriteString(RenderIDMapLines(Group, groups))

	out.WriteString("\n# Add to /etc/subuid:\n")
	out.WriteString(RenderSubordinateLines(SubordinateEntries(users)))

	out.WriteString("\n# Add to /etc/subgid:\n")
	out.WriteString(RenderSubordinateLines(SubordinateEntries(groups)))

	return out.String()
}
