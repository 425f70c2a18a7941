package ports

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultPool returns the pool used when the caller configures none,
// matching the conventional 9100-9199 loopback range.
func DefaultPool() []int {
	pool, _ := ParseSpec("9100-9199")
	return pool
}

// ParseSpec expands a comma-separated list of ports and inclusive ranges,
// e.g. "9100-9199" or "9100-9149,9300,9400-9410", into a pool.
func ParseSpec(spec string) ([]int, error) {
	var pool []int
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, found := strings.Cut(part, "-")
		if !found {
			p, err := parsePort(lo)
			if err != nil {
				return nil, err
			}
			pool = append(pool, p)
			continue
		}
		start, err := parsePort(lo)
		if err != nil {
			return nil, err
		}
		end, err := parsePort(hi)
		if err != nil {
			return nil, err
		}
		if end < start {
			return nil, fmt.Errorf("invalid port range: %s", part)
		}
		for p := start; p <= end; p++ {
			pool = append(pool, p)
		}
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("port spec %q contains no ports", spec)
	}
	return pool, nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if p < 1 || p > 65535 {
		return 0, fmt.Errorf("port %d out of range", p)
	}
	return p, nil
}

// poolFile is the YAML shape of a port-pool file: an explicit list, a list
// of range specs, or both.
type poolFile struct {
	Ports  []int    `yaml:"ports"`
	Ranges []string `yaml:"ranges"`
}

// LoadPoolFile reads a YAML pool file and expands it into a pool.
func LoadPoolFile(path string) ([]int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pool file: %w", err)
	}
	var f poolFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parsing pool file %s: %w", path, err)
	}

	pool := make([]int, 0, len(f.Ports))
	for _, p := range f.Ports {
		if p < 1 || p > 65535 {
			return nil, fmt.Errorf("pool file %s: port %d out of range", path, p)
		}
		pool = append(pool, p)
	}
	for _, r := range f.Ranges {
		expanded, err := ParseSpec(r)
		if err != nil {
			return nil, fmt.Errorf("pool file %s: %w", path, err)
		}
		pool = append(pool, expanded...)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("pool file %s contains no ports", path)
	}
	return pool, nil
}
