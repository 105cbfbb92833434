package types

import "time"

// RoleSuperadmin is the role value that grants administration of every
// node regardless of tree position.
const RoleSuperadmin = "superadmin"

// Grant gives a subject a role at one node. Administration extends to the
// whole subtree below that node.
type Grant struct {
	// GrantID is a UUID v7, generated on creation.
	GrantID string `json:"grant_id"`

	// Subject identifies the grantee (user name, service account, ...).
	// Opaque to the store.
	Subject string `json:"subject"`

	// Role is a free-form role label. RoleSuperadmin is special-cased.
	Role string `json:"role"`

	// NodeID is the node the grant is anchored at. Empty for
	// superadmin grants, which are not tied to a node.
	NodeID string `json:"node_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
