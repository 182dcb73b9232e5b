package kernel

import "strconv"

// UserID is the numeric identity of a registered user.
type UserID int64

func NewUserID(id int64) UserID   { return UserID(id) }
func (u UserID) Int64() int64     { return int64(u) }
func (u UserID) String() string   { return strconv.FormatInt(int64(u), 10) }
func (u UserID) IsEmpty() bool    { return int64(u) == 0 }

// Role is a named capability tag gating access to route groups.
type Role string

const (
	RoleAdmin          Role = "ADMIN"
	RoleShopOwner      Role = "SHOP_OWNER"
	RoleDeliveryPerson Role = "DELIVERY_PERSON"
	RoleCustomer       Role = "CUSTOMER"
)

func (r Role) String() string { return string(r) }

// KnownRoles lists every role a user may register with. ADMIN is excluded:
// admin accounts are provisioned out of band, never via self-registration.
func KnownRoles() []Role {
	return []Role{RoleShopOwner, RoleDeliveryPerson, RoleCustomer}
}

// IsAssignable reports whether the role may be requested at registration.
func (r Role) IsAssignable() bool {
	for _, known := range KnownRoles() {
		if r == known {
			return true
		}
	}
	return false
}
