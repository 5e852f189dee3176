package changetree

const (
	// PropertySeparator joins an object and one of its properties.
	PropertySeparator = "."

	// MemberSeparator joins a collection and a path inside one of its members.
	MemberSeparator = "[]."
)

// Combine prefixes child with parent.
// An empty parent leaves child unchanged; member selects the collection
// separator. Names are not escaped.
func Combine(parent, child string, member bool) string {
	if parent == "" {
		return child
	}
	if member {
		return parent + MemberSeparator + child
	}
	return parent + PropertySeparator + child
}
