// Package entities provides the core data structures of the bounty quest module.
package entities

import "fmt"

// FormID identifies a live host object. The module never owns host objects;
// a FormID is a non-owning handle that may resolve to nothing at any time.
type FormID uint32

// NoForm is the null handle.
const NoForm FormID = 0

// IsNone reports whether the handle is null.
func (id FormID) IsNone() bool {
	return id == NoForm
}

// String formats the id the way host tooling prints it
func (id FormID) String() string {
	return fmt.Sprintf("0x%08X", uint32(id))
}

// FormKind tells the host what kind of object a handle is expected to be
type FormKind uint8

// Form kinds used by the module
const (
	FormAny FormKind = iota
	FormLocation
	FormQuest
	FormGlobal
	FormItem
	FormActor
	FormReference
	FormRefType
)

// FormRef is a plugin-local reference as written in data files: the id
// without the load-order prefix plus the owning plugin file name.
type FormRef struct {
	ID   FormID
	File string
}

// String returns a readable form reference
func (r FormRef) String() string {
	return fmt.Sprintf("%s|%s", r.ID, r.File)
}
