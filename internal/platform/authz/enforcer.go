// Package authz decides who may read or mutate recipes. Rules live in an
// embedded casbin model and policy.
package authz

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

const (
	RoleAnonymous = "anonymous"
	RoleUser      = "user"
	RoleStaff     = "staff"

	RelationOwner = "owner"
	RelationOther = "other"

	ObjectRecipe = "recipe"
	ObjectUser   = "user"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Subject is the identity a decision is made for. The zero value is anonymous.
type Subject struct {
	UserID  int64
	IsStaff bool
}

func (s Subject) Role() string {
	switch {
	case s.UserID <= 0:
		return RoleAnonymous
	case s.IsStaff:
		return RoleStaff
	default:
		return RoleUser
	}
}

type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(e, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Enforcer{enforcer: e}, nil
}

func loadEmbeddedPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		switch parts[0] {
		case "p":
			if len(parts) != 5 {
				return fmt.Errorf("malformed policy line %q", line)
			}
			if _, err := e.AddPolicy(parts[1], parts[2], parts[3], parts[4]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
		case "g":
			if len(parts) != 3 {
				return fmt.Errorf("malformed grouping line %q", line)
			}
			if _, err := e.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
		}
	}
	return nil
}

// Can reports whether sub may perform action on an object owned by ownerID.
// ownerID 0 means the object has no owner yet (create) or ownership is
// irrelevant (read).
func (e *Enforcer) Can(sub Subject, ownerID int64, object, action string) (bool, error) {
	rel := RelationOther
	if ownerID > 0 && sub.UserID == ownerID {
		rel = RelationOwner
	}
	ok, err := e.enforcer.Enforce(sub.Role(), rel, object, action)
	if err != nil {
		return false, fmt.Errorf("authz enforce %s/%s: %w", object, action, err)
	}
	return ok, nil
}
