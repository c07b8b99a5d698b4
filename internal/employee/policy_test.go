package employee_test

import (
	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Policy", func() {
	owner := internal.Principal{UserID: 7}

	Describe("ResolveRole", func() {
		It("treats admins as admin even on their own record", func() {
			role, err := employee.ResolveRole(internal.Principal{UserID: 7, IsAdmin: true}, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(employee.RoleAdmin))
		})

		It("treats the owner as self", func() {
			role, err := employee.ResolveRole(owner, 7)
			Expect(err).NotTo(HaveOccurred())
			Expect(role).To(Equal(employee.RoleSelf))
		})

		It("forbids anyone else", func() {
			_, err := employee.ResolveRole(internal.Principal{UserID: 8}, 7)
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(403))
			Expect(appErr.Code).To(Equal(internal.ErrCodeNotOwner))
		})
	})

	Describe("Partition", func() {
		It("splits fields by capability and ignores the method override", func() {
			allowed, rejected := employee.NewPolicy(employee.ModeReject).Partition(employee.RoleSelf,
				[]string{"position_id", "first_name", "_method", "employment_status", "address"})
			Expect(allowed).To(Equal([]string{"address", "first_name"}))
			Expect(rejected).To(Equal([]string{"employment_status", "position_id"}))
		})

		It("grants admins every writable employee field", func() {
			_, rejected := employee.NewPolicy(employee.ModeReject).Partition(employee.RoleAdmin,
				[]string{"first_name", "last_name", "gender", "address", "employment_status", "position_id", "department_id"})
			Expect(rejected).To(BeEmpty())
		})

		It("never grants user_id on update", func() {
			_, rejected := employee.NewPolicy(employee.ModeReject).Partition(employee.RoleAdmin, []string{"user_id"})
			Expect(rejected).To(ConsistOf("user_id"))
		})
	})

	Describe("Authorize", func() {
		input := map[string]any{"first_name": "Budi", "department_id": 3}

		It("rejects the whole input in reject mode and names the fields", func() {
			_, err := employee.NewPolicy(employee.ModeReject).Authorize(employee.RoleSelf, input)
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(403))
			Expect(appErr.Details).To(Equal(internal.DeniedFields{Fields: []string{"department_id"}}))
			Expect(appErr.Message).To(ContainSubstring("department_id"))
		})

		It("drops unauthorized fields in drop mode", func() {
			permitted, err := employee.NewPolicy(employee.ModeDrop).Authorize(employee.RoleSelf, input)
			Expect(err).NotTo(HaveOccurred())
			Expect(permitted).To(Equal(map[string]any{"first_name": "Budi"}))
		})

		It("falls back to reject for unknown modes", func() {
			Expect(employee.NewPolicy("lenient").Mode()).To(Equal(employee.ModeReject))
		})
	})
})

var _ = Describe("Derived attributes", func() {
	It("joins names without stray whitespace", func() {
		Expect(employee.FullName("Budi", "Santoso")).To(Equal("Budi Santoso"))
		Expect(employee.FullName("Budi", "")).To(Equal("Budi"))
		Expect(employee.FullName("", "")).To(BeEmpty())
	})

	It("resolves photo paths against the storage base", func() {
		Expect(employee.PhotoURL("https://hr.example.com/", testutil.Str("photos/a.jpg"))).
			To(Equal("https://hr.example.com/storage/photos/a.jpg"))
		Expect(employee.PhotoURL("https://hr.example.com", nil)).To(BeEmpty())
		Expect(employee.PhotoURL("https://hr.example.com", testutil.Str(""))).To(BeEmpty())
	})
})
