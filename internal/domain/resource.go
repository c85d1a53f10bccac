package domain

// ResourceKind identifies one provisionable SCIM entity type in the client UI.
type ResourceKind string

const (
	KindUser        ResourceKind = "user"
	KindGroup       ResourceKind = "group"
	KindEntitlement ResourceKind = "entitlement"
	KindRole        ResourceKind = "role"
)

// TypeFieldMode describes how a resource kind's "type" field is entered.
type TypeFieldMode string

const (
	TypeFieldNone       TypeFieldMode = "none"
	TypeFieldEnumerated TypeFieldMode = "enumerated"
	TypeFieldFreeText   TypeFieldMode = "free_text"
)

// ResourceProfile describes the UI contract of one resource kind: the
// navigation label that reaches its list view, the label of its creation
// trigger, and the fields its creation form requires.
type ResourceProfile struct {
	Kind        ResourceKind
	NavLabel    string
	CreateLabel string
	Required    []string
	TypeField   TypeFieldMode
}

// Navigation labels the client must expose beyond the resource sections.
const (
	NavServerConfig = "Server Config"
	NavSettings     = "Settings"
)

// ServerConfigHeading is the top-level heading of the server-configuration view.
const ServerConfigHeading = "Server Configuration"

var profiles = []ResourceProfile{
	{
		Kind:        KindUser,
		NavLabel:    "Users",
		CreateLabel: "Create User",
		Required:    []string{"userName", "displayName", "email"},
		TypeField:   TypeFieldNone,
	},
	{
		Kind:        KindGroup,
		NavLabel:    "Groups",
		CreateLabel: "Create Group",
		Required:    []string{"displayName", "description"},
		TypeField:   TypeFieldNone,
	},
	{
		Kind:        KindEntitlement,
		NavLabel:    "Entitlements",
		CreateLabel: "Create Entitlement",
		Required:    []string{"displayName", "type", "description"},
		TypeField:   TypeFieldEnumerated,
	},
	{
		Kind:        KindRole,
		NavLabel:    "Roles",
		CreateLabel: "Create Role",
		Required:    []string{"displayName", "type", "description"},
		TypeField:   TypeFieldFreeText,
	},
}

// Profiles returns the resource-kind catalog in stable order.
func Profiles() []ResourceProfile {
	out := make([]ResourceProfile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileFor returns the profile of a kind, or false if the kind is unknown.
func ProfileFor(kind ResourceKind) (ResourceProfile, bool) {
	for _, p := range profiles {
		if p.Kind == kind {
			return p, true
		}
	}
	return ResourceProfile{}, false
}

// NavLabels returns the complete set of navigation labels the client must
// surface after successful configuration, in display order.
func NavLabels() []string {
	out := make([]string, 0, len(profiles)+2)
	for _, p := range profiles {
		out = append(out, p.NavLabel)
	}
	return append(out, NavServerConfig, NavSettings)
}
