package rbac

// Portal roles. Role inheritance is admin > hr > manager > employee.
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const modelText = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type policyRule struct {
	Role     string
	Resource string
	Action   string
}

// defaultPolicy is the static permission matrix of the portal.
var defaultPolicy = []policyRule{
	{RoleEmployee, "catalog", "read"},
	{RoleEmployee, "basket", "read"},
	{RoleEmployee, "basket", "write"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "update"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "balance", "read"},
	{RoleEmployee, "question", "read"},
	{RoleEmployee, "question", "write"},
	{RoleEmployee, "notification", "read"},
	{RoleEmployee, "dashboard", "read"},

	{RoleManager, "leave", "approve"},
	{RoleManager, "leave", "reject"},
	{RoleManager, "team", "read"},

	{RoleHR, "question", "review"},
	{RoleHR, "question", "answer"},
	{RoleHR, "employee", "read"},
	{RoleHR, "balance", "write"},

	{RoleAdmin, "employee", "write"},
	{RoleAdmin, "team", "write"},
	{RoleAdmin, "catalog", "write"},
}

// roleInheritance maps each role to the role it extends.
var roleInheritance = map[string]string{
	RoleManager: RoleEmployee,
	RoleHR:      RoleManager,
	RoleAdmin:   RoleHR,
}
