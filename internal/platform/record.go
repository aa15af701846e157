package platform

// Field names used in normalized records.
const (
	FieldUsername      = "username"
	FieldNickname      = "nickname"
	FieldFullName      = "full_name"
	FieldFollowers     = "followers"
	FieldFollowing     = "following"
	FieldLikes         = "likes"
	FieldVerified      = "verified"
	FieldBio           = "bio"
	FieldProfilePicURL = "profile_pic_url"
)

// Record is one normalized user entry: a flat mapping from field name to
// value. Which fields are present depends on the platform; values are
// strings, int64 counts, or bools.
type Record map[string]any

// Has reports whether the record carries the field.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}

var columnOrders = map[Platform][]string{
	TikTok:    {FieldUsername, FieldNickname, FieldFollowers, FieldFollowing, FieldLikes, FieldVerified, FieldBio},
	Instagram: {FieldUsername, FieldFullName, FieldFollowers, FieldVerified},
	Threads:   {FieldUsername, FieldFullName, FieldFollowers, FieldVerified},
}

// ColumnOrder returns the display column order for the platform. Columns in
// the order that the platform's records do not carry are dropped by the
// presenter.
func (p Platform) ColumnOrder() []string {
	return append([]string(nil), columnOrders[p]...)
}
