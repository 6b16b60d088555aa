package idmap

// Namespace identifies which of the two ID pipelines a mapping or
// partition belongs to. The user and group pipelines never interact.
type Namespace int

const (
	User Namespace = iota
	Group
)

func (n Namespace) String() string {
	if n == Group {
		return "group"
	}

	return "user"
}

// Letter is the single-character tag used in lxc.idmap configuration
// lines: "u" for the user namespace, "g" for the group namespace.
func (n Namespace) Letter() string {
	if n == Group {
		return "g"
	}

	return "u"
}
