package models

// Patch types enumerate every mutable field per entity, replacing ad-hoc
// partial-field merges. A nil pointer means "leave unchanged". Optional
// columns use NullableString so a patch can distinguish "unchanged" from
// "set to NULL" (RFC 7396 merge-patch semantics).

// NullableString tracks presence and value for nullable column updates:
//   - Set=false: leave unchanged
//   - Set=true, Value=nil: clear to NULL
//   - Set=true, Value=&s: assign s
type NullableString struct {
	Set   bool
	Value *string
}

// Assign returns a NullableString carrying the given value.
func Assign(s string) NullableString {
	return NullableString{Set: true, Value: &s}
}

// Clear returns a NullableString that sets the column to NULL.
func Clear() NullableString {
	return NullableString{Set: true}
}

// WorkspacePatch updates a subset of a workspace's mutable fields.
type WorkspacePatch struct {
	Title     *string
	IconID    *string
	Data      NullableString
	Logo      NullableString
	BannerURL NullableString
	InTrash   NullableString
}

// FolderPatch updates a subset of a folder's mutable fields.
type FolderPatch struct {
	Title     *string
	IconID    *string
	Data      NullableString
	BannerURL NullableString
	InTrash   NullableString
}

// FilePatch updates a subset of a file's mutable fields.
type FilePatch struct {
	Title     *string
	IconID    *string
	Data      NullableString
	BannerURL NullableString
	InTrash   NullableString
}

// IsZero reports whether the patch changes nothing.
func (p WorkspacePatch) IsZero() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Set &&
		!p.Logo.Set && !p.BannerURL.Set && !p.InTrash.Set
}

// Apply merges the patch into a copy-safe workspace value.
func (p WorkspacePatch) Apply(w *Workspace) {
	if p.Title != nil {
		w.Title = *p.Title
	}
	if p.IconID != nil {
		w.IconID = *p.IconID
	}
	if p.Data.Set {
		w.Data = p.Data.Value
	}
	if p.Logo.Set {
		w.Logo = p.Logo.Value
	}
	if p.BannerURL.Set {
		w.BannerURL = p.BannerURL.Value
	}
	if p.InTrash.Set {
		w.InTrash = p.InTrash.Value
	}
}

// IsZero reports whether the patch changes nothing.
func (p FolderPatch) IsZero() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Set &&
		!p.BannerURL.Set && !p.InTrash.Set
}

// Apply merges the patch into a copy-safe folder value.
func (p FolderPatch) Apply(f *Folder) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	if p.Data.Set {
		f.Data = p.Data.Value
	}
	if p.BannerURL.Set {
		f.BannerURL = p.BannerURL.Value
	}
	if p.InTrash.Set {
		f.InTrash = p.InTrash.Value
	}
}

// IsZero reports whether the patch changes nothing.
func (p FilePatch) IsZero() bool {
	return p.Title == nil && p.IconID == nil && !p.Data.Set &&
		!p.BannerURL.Set && !p.InTrash.Set
}

// Apply merges the patch into a copy-safe file value.
func (p FilePatch) Apply(f *File) {
	if p.Title != nil {
		f.Title = *p.Title
	}
	if p.IconID != nil {
		f.IconID = *p.IconID
	}
	if p.Data.Set {
		f.Data = p.Data.Value
	}
	if p.BannerURL.Set {
		f.BannerURL = p.BannerURL.Value
	}
	if p.InTrash.Set {
		f.InTrash = p.InTrash.Value
	}
}

// StringPtr is a convenience for building patches.
func StringPtr(s string) *string { return &s }
