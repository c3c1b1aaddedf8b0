// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Matching selects how noisy and clean lists are put in correspondence.
type Matching int

const (
	// MatchZipSorted sorts both lists by (path, frames) and pairs them 1:1.
	MatchZipSorted Matching = iota
	// MatchCrossProduct pairs every noisy entry with every clean entry, in
	// input order. It is kept for datasets built with the historical "sort"
	// setting; an N×M output is rarely what a denoising setup wants.
	MatchCrossProduct
	// MatchDNS pairs files by the numeric id in their fileid_<n>.wav suffix.
	MatchDNS
)

var matchingNames = map[Matching]string{
	MatchZipSorted:    "zip_sorted",
	MatchCrossProduct: "cross_product",
	MatchDNS:          "dns",
}

func (m Matching) String() string {
	if name, ok := matchingNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Matching(%d)", int(m))
}

// ParseMatching accepts "zip_sorted", "cross_product", "dns" and the legacy
// alias "sort" for cross_product.
func ParseMatching(s string) (Matching, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "zip_sorted":
		return MatchZipSorted, nil
	case "cross_product", "sort":
		return MatchCrossProduct, nil
	case "dns":
		return MatchDNS, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownMatching, s)
}

// DefaultMaxPairs bounds the cross product.
const DefaultMaxPairs = 20_000_000

// PairedFiles holds two index-aligned lists: Noisy[i] goes with Clean[i].
type PairedFiles struct {
	Noisy []FileRef
	Clean []FileRef
}

func (p PairedFiles) Len() int { return len(p.Clean) }

type pairConfig struct {
	maxPairs int
	logger   logrus.FieldLogger
}

type PairOption func(*pairConfig)

// WithMaxPairs caps the cross product at n pairs; n <= 0 removes the cap.
func WithMaxPairs(n int) PairOption {
	return func(c *pairConfig) { c.maxPairs = n }
}

func WithPairLogger(logger logrus.FieldLogger) PairOption {
	return func(c *pairConfig) { c.logger = logger }
}

// Pair aligns noisy and clean according to m. The inputs are never modified.
func Pair(noisy, clean []FileRef, m Matching, opts ...PairOption) (PairedFiles, error) {
	cfg := pairConfig{
		maxPairs: DefaultMaxPairs,
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.logger.WithFields(logrus.Fields{
		"matching": m.String(),
		"noisy":    len(noisy),
		"clean":    len(clean),
	}).Debug("matching noisy and clean files")

	switch m {
	case MatchZipSorted:
		return zipSorted(noisy, clean)
	case MatchCrossProduct:
		return crossProduct(noisy, clean, cfg), nil
	case MatchDNS:
		return matchDNS(noisy, clean)
	}

	return PairedFiles{}, fmt.Errorf("%w: %s", ErrUnknownMatching, m)
}

func sortedCopy(files []FileRef) []FileRef {
	out := append([]FileRef(nil), files...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Frames < out[j].Frames
	})

	return out
}

func zipSorted(noisy, clean []FileRef) (PairedFiles, error) {
	if len(noisy) != len(clean) {
		return PairedFiles{}, fmt.Errorf("%w: %d noisy, %d clean files", ErrCardinalityMismatch, len(noisy), len(clean))
	}

	return PairedFiles{Noisy: sortedCopy(noisy), Clean: sortedCopy(clean)}, nil
}

func crossProduct(noisy, clean []FileRef, cfg pairConfig) PairedFiles {
	total := len(noisy) * len(clean)
	capped := cfg.maxPairs > 0 && total > cfg.maxPairs
	if capped {
		total = cfg.maxPairs
	}

	out := PairedFiles{
		Noisy: make([]FileRef, 0, total),
		Clean: make([]FileRef, 0, total),
	}

outer:
	for _, n := range noisy {
		for _, c := range clean {
			if len(out.Clean) == total {
				break outer
			}
			out.Noisy = append(out.Noisy, n)
			out.Clean = append(out.Clean, c)
		}
	}

	if capped {
		cfg.logger.WithFields(logrus.Fields{
			"pairs": total,
			"limit": cfg.maxPairs,
		}).Warn("cross product truncated at pair limit")
	}

	return out
}

var dnsFileID = regexp.MustCompile(`fileid_(\d+)\.wav$`)

func matchDNS(noisy, clean []FileRef) (PairedFiles, error) {
	byID := make(map[string]FileRef, len(noisy))
	var extraNoisy []FileRef
	for _, f := range noisy {
		m := dnsFileID.FindStringSubmatch(f.Path)
		if m == nil {
			extraNoisy = append(extraNoisy, f)
			continue
		}
		byID[m[1]] = f
	}

	out := PairedFiles{
		Noisy: make([]FileRef, 0, len(clean)),
		Clean: make([]FileRef, 0, len(clean)),
	}
	var extraClean []FileRef
	for _, f := range clean {
		m := dnsFileID.FindStringSubmatch(f.Path)
		if m == nil {
			extraClean = append(extraClean, f)
			continue
		}

		n, ok := byID[m[1]]
		if !ok {
			return PairedFiles{}, fmt.Errorf("%w: id %s of %q", ErrPairingLookup, m[1], f.Path)
		}
		out.Noisy = append(out.Noisy, n)
		out.Clean = append(out.Clean, f)
	}

	out.Noisy = append(out.Noisy, sortedCopy(extraNoisy)...)
	out.Clean = append(out.Clean, sortedCopy(extraClean)...)

	return out, nil
}
