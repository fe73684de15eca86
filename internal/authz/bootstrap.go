package authz

import (
	"fmt"

	"github.com/artmart-next/internal/constants"
)

// RoleSeed 预置角色定义
type RoleSeed struct {
	Role     string
	Policies []Policy
}

// BuiltinRoleSeeds 系统预置角色矩阵
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: constants.RoleArtist,
			Policies: []Policy{
				{Object: "/artist/dashboard", Action: "GET"},
				{Object: "/artist/artworks", Action: "GET"},
				{Object: "/artist/artworks", Action: "POST"},
				{Object: "/artist/artworks/:id", Action: "GET"},
				{Object: "/artist/orders", Action: "GET"},
				{Object: "/artist/orders/pending", Action: "GET"},
				{Object: "/artist/orders/recent", Action: "GET"},
				{Object: "/artist/orders/:id/shipping", Action: "PATCH"},
				{Object: "/artist/discounts", Action: "GET"},
				{Object: "/artist/discounts", Action: "POST"},
				{Object: "/artist/permissions", Action: "GET"},
			},
		},
	}
}

// BootstrapBuiltinRoles 初始化预置角色与默认策略
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}
	for _, seed := range BuiltinRoleSeeds() {
		for _, policy := range seed.Policies {
			if err := s.GrantRolePolicy(seed.Role, policy.Object, policy.Action); err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
		}
	}
	return nil
}
