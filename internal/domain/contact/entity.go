package contact

import "time"

// Contact is a directory entry mapping a contact id to its display
// metadata. Entries are upserted opportunistically with merge
// semantics: empty fields never clobber stored values.
type Contact struct {
	WaID       string    `bson:"wa_id" json:"wa_id"`
	Name       string    `bson:"name" json:"name"`
	ProfilePic string    `bson:"profilePic" json:"profilePic"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Merge applies incoming fields onto c, skipping empties, and reports
// whether anything changed.
func (c *Contact) Merge(name, profilePic string) bool {
	changed := false
	if name != "" && name != c.Name {
		c.Name = name
		changed = true
	}
	if profilePic != "" && profilePic != c.ProfilePic {
		c.ProfilePic = profilePic
		changed = true
	}
	return changed
}
