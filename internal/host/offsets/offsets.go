// Package offsets maps the module's native operations onto addresses in the
// running host binary. Each operation is known by an address-library id per
// supported runtime; the id is turned into an address once, at load time.
package offsets

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

// Variant is a supported host runtime line
type Variant uint8

// Supported runtimes
const (
	VariantSE Variant = iota + 1 // 1.5.x
	VariantAE                    // 1.6.x
)

// String returns the variant name
func (v Variant) String() string {
	switch v {
	case VariantSE:
		return "SE"
	case VariantAE:
		return "AE"
	default:
		return "unknown"
	}
}

// Op names a native operation
type Op string

// Native operations
const (
	OpShowGiftMenuTarget   Op = "ShowGiftMenu_Target"
	OpShowGiftMenuSource   Op = "ShowGiftMenu_Source"
	OpForceLocationTo      Op = "ForceLocationTo"
	OpForceRefTo           Op = "ForceRefTo"
	OpGetIsEditorLocation  Op = "GetIsEditorLocation"
	OpGetRefTypeAliveCount Op = "GetRefTypeAliveCount"
	OpSetObjectiveState    Op = "SetObjectiveState"
)

// ID is the address-library id of an operation on each runtime
type ID struct {
	SE uint64
	AE uint64
}

// For selects the id of the variant
func (id ID) For(v Variant) uint64 {
	if v == VariantAE {
		return id.AE
	}
	return id.SE
}

// Table is the full set of known operations
var Table = map[Op]ID{
	OpShowGiftMenuTarget:   {SE: 519570, AE: 406111},
	OpShowGiftMenuSource:   {SE: 519571, AE: 406112},
	OpForceLocationTo:      {SE: 24525, AE: 25054},
	OpForceRefTo:           {SE: 24523, AE: 25052},
	OpGetIsEditorLocation:  {SE: 17961, AE: 18365},
	OpGetRefTypeAliveCount: {SE: 17964, AE: 18368},
	OpSetObjectiveState:    {SE: 23467, AE: 23933},
}

// AddressLibrary turns address-library ids into addresses in the running
// binary. The host loader provides it.
type AddressLibrary interface {
	Address(id uint64) (uintptr, bool)
}

// Resolved holds the addresses of every operation for one runtime
type Resolved struct {
	variant Variant
	addrs   map[Op]uintptr
}

// ParseVariant maps a runtime version string such as "1.6.1170.0" to a variant
func ParseVariant(version string) (Variant, error) {
	parts := strings.Split(strings.TrimSpace(version), ".")
	if len(parts) < 2 {
		return 0, errors.FailedPreconditionf("unrecognized host version %q", version)
	}

	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, errors.FailedPreconditionf("unrecognized host version %q", version)
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, errors.FailedPreconditionf("unrecognized host version %q", version)
	}

	switch {
	case major == 1 && minor == 5:
		return VariantSE, nil
	case major == 1 && minor == 6:
		return VariantAE, nil
	default:
		return 0, errors.FailedPreconditionf("unsupported host version %q", version)
	}
}

// Resolve binds every operation in Table to an address for the running
// runtime. Any failure is fatal to the module.
func Resolve(version string, lib AddressLibrary) (*Resolved, error) {
	if lib == nil {
		return nil, errors.InvalidArgument("address library is required")
	}

	variant, err := ParseVariant(version)
	if err != nil {
		return nil, err
	}

	addrs := make(map[Op]uintptr, len(Table))
	for op, id := range Table {
		addr, ok := lib.Address(id.For(variant))
		if !ok || addr == 0 {
			return nil, errors.FailedPreconditionf("no address for %s (id %d) on %s", op, id.For(variant), variant).
				WithMeta("version", version)
		}
		addrs[op] = addr
	}

	slog.Info("Resolved native offsets",
		"version", version,
		"variant", variant.String(),
		"operations", len(addrs),
	)

	return &Resolved{variant: variant, addrs: addrs}, nil
}

// Variant returns the runtime the addresses belong to
func (r *Resolved) Variant() Variant {
	return r.variant
}

// Address returns the address of an operation, 0 if unknown
func (r *Resolved) Address(op Op) uintptr {
	return r.addrs[op]
}
