package idmap

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
)

// HostMap is the path of a kernel ID-map file describing which host IDs
// the current process can delegate into a namespace.
type HostMap string

const DefaultUIDHostMap HostMap = "/proc/self/uid_map"
const DefaultGIDHostMap HostMap = "/proc/self/gid_map"

// Supported reports whether the host exposes ID-map files at all.
func Supported() bool {
	return runtime.GOOS == "linux" &&
		DefaultUIDHostMap.Supported() &&
		DefaultGIDHostMap.Supported()
}

func (m HostMap) Supported() bool {
	f, err := os.Open(string(m))
	if err == nil {
		f.Close()
	}

	return !os.IsNotExist(err)
}

// MaxValid reports the highest container-side ID covered by the map
// file's entries, i.e. the highest ID the current process can map.
func (m HostMap) MaxValid() (int, error) {
	f, err := os.Open(string(m))
	if err != nil {
		return 0, err
	}

	defer f.Close()

	maxValid := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var container, host, size int
		if _, err := fmt.Sscanf(scanner.Text(), "%d %d %d", &container, &host, &size); err != nil {
			return 0, ParseError{Line: scanner.Text(), Err: err}
		}

		if last := container + size - 1; last > maxValid {
			maxValid = last
		}
	}

	return maxValid, nil
}

type ParseError struct {
	Line string
	Err  error
}

func (p ParseError) Error() string {
	return fmt.Sprintf(`%s while parsing line "%s"`, p.Err, p.Line)
}
