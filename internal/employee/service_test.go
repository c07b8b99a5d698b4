package employee_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/hr-management/internal"
	"github.com/frahmantamala/hr-management/internal/core/testutil"
	"github.com/frahmantamala/hr-management/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Employee Service", func() {
	var (
		ctx     context.Context
		db      *gorm.DB
		f       fixture
		service *employee.Service
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = testutil.OpenDB()
		Expect(err).NotTo(HaveOccurred())
		f = seed(db)
		service, _ = newService(db, employee.ModeReject)
	})

	Describe("Get", func() {
		It("returns the record with derived attributes to its owner", func() {
			e, err := service.Get(ctx, principalOf(f.owner), f.employee.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(e.FullName).To(Equal("Budi Santoso"))
			Expect(e.ProfilePhotoURL).To(Equal(photoBaseURL + "/storage/photos/budi.jpg"))
			Expect(e.User.Email).To(Equal("budi@example.com"))
			Expect(e.Position).To(BeNil())
		})

		It("forbids other non-admin users", func() {
			_, err := service.Get(ctx, principalOf(f.stranger), f.employee.ID)
			Expect(appErrorOf(err).StatusCode).To(Equal(403))
		})

		It("returns 404 for a missing id", func() {
			_, err := service.Get(ctx, principalOf(f.admin), 9999)
			Expect(err).To(MatchError(employee.ErrEmployeeNotFound))
		})
	})

	Describe("Update as self", func() {
		It("applies personal fields", func() {
			e, err := service.Update(ctx, principalOf(f.owner), f.employee.ID, map[string]any{
				"first_name": "Budiman",
				"address":    "Jl. Thamrin 2",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.FullName).To(Equal("Budiman Santoso"))
			Expect(e.Address).To(Equal("Jl. Thamrin 2"))

			stored := reload(db, f.employee.ID)
			Expect(stored.FirstName).To(Equal("Budiman"))
		})

		It("refuses to blank the address", func() {
			before := reload(db, f.employee.ID).Address
			_, err := service.Update(ctx, principalOf(f.owner), f.employee.ID, map[string]any{"address": ""})
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(422))
			Expect(appErr.Details.(internal.ValidationErrors).ByField()).To(
				HaveKeyWithValue("address", ConsistOf("The address field is required.")))
			Expect(reload(db, f.employee.ID).Address).To(Equal(before))
		})

		It("rejects admin-only fields without writing anything", func() {
			_, err := service.Update(ctx, principalOf(f.owner), f.employee.ID, map[string]any{
				"first_name":    "Budiman",
				"position_id":   f.position.ID,
				"department_id": f.department.ID,
			})
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(403))
			Expect(appErr.Details).To(Equal(internal.DeniedFields{Fields: []string{"department_id", "position_id"}}))

			stored := reload(db, f.employee.ID)
			Expect(stored.FirstName).To(Equal("Budi"))
			Expect(stored.PositionID).To(BeNil())
		})

		It("drops admin-only fields when the policy is in drop mode", func() {
			service, _ = newService(db, employee.ModeDrop)
			e, err := service.Update(ctx, principalOf(f.owner), f.employee.ID, map[string]any{
				"first_name":  "Budiman",
				"position_id": f.position.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.FirstName).To(Equal("Budiman"))
			Expect(e.PositionID).To(BeNil())
		})

		It("refuses updates from other users", func() {
			_, err := service.Update(ctx, principalOf(f.stranger), f.employee.ID, map[string]any{"first_name": "X"})
			Expect(appErrorOf(err).Code).To(Equal(internal.ErrCodeNotOwner))
		})
	})

	Describe("Update as admin", func() {
		It("assigns position and department and returns them nested", func() {
			e, err := service.Update(ctx, principalOf(f.admin), f.employee.ID, map[string]any{
				"position_id":       float64(f.position.ID),
				"department_id":     f.department.ID,
				"employment_status": "leave",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.EmploymentStatus).To(Equal("leave"))
			Expect(e.Position).NotTo(BeNil())
			Expect(e.Position.Name).To(Equal("Operator"))
			Expect(e.Department).NotTo(BeNil())
			Expect(e.Department.Name).To(Equal("Head Office"))
		})

		It("clears a nullable reference with null", func() {
			Expect(db.Model(f.employee).Update("position_id", f.position.ID).Error).NotTo(HaveOccurred())

			e, err := service.Update(ctx, principalOf(f.admin), f.employee.ID, map[string]any{"position_id": nil})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.PositionID).To(BeNil())
			Expect(e.Position).To(BeNil())
		})

		It("reports unknown references and invalid enums per field", func() {
			_, err := service.Update(ctx, principalOf(f.admin), f.employee.ID, map[string]any{
				"department_id": 4242,
				"gender":        "unknown",
			})
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(422))
			byField := appErr.Details.(internal.ValidationErrors).ByField()
			Expect(byField["department_id"]).To(ConsistOf("The selected department_id is invalid."))
			Expect(byField).To(HaveKey("gender"))
		})

		It("returns 404 before authorizing a missing id", func() {
			_, err := service.Update(ctx, principalOf(f.owner), 9999, map[string]any{"first_name": "X"})
			Expect(appErrorOf(err).StatusCode).To(Equal(404))
		})
	})

	Describe("Update rollback", func() {
		It("leaves the row untouched and hides the failure when the write fails", func() {
			svc, logs := newService(db, employee.ModeReject)

			Expect(db.Callback().Update().After("gorm:update").Register("test:fail_employee_update", func(tx *gorm.DB) {
				if tx.Statement.Table == "employees" {
					_ = tx.AddError(errors.New("simulated write failure"))
				}
			})).To(Succeed())

			_, err := svc.Update(ctx, principalOf(f.admin), f.employee.ID, map[string]any{
				"first_name":  "Changed",
				"position_id": f.position.ID,
			})
			appErr := appErrorOf(err)
			Expect(appErr.StatusCode).To(Equal(500))
			Expect(appErr.Message).To(Equal(internal.InternalErrorMessage))
			Expect(appErr.Error()).NotTo(Equal("simulated write failure"))

			stored := reload(db, f.employee.ID)
			Expect(stored.FirstName).To(Equal("Budi"))
			Expect(stored.PositionID).To(BeNil())

			Expect(logs.String()).To(ContainSubstring("simulated write failure"))
			Expect(logs.String()).To(ContainSubstring("operation=employee.update"))
		})
	})

	Describe("Create", func() {
		It("creates an employee for a user without one", func() {
			e, err := service.Create(ctx, f.admin.ID, map[string]any{
				"user_id":       f.stranger.ID,
				"first_name":    "Sari",
				"last_name":     "Dewi",
				"gender":        "female",
				"department_id": f.department.ID,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(e.ID).NotTo(BeZero())
			Expect(e.EmploymentStatus).To(Equal(employee.StatusActive))
			Expect(e.Department.Name).To(Equal("Head Office"))
			Expect(e.ProfilePhotoURL).To(BeEmpty())
		})

		It("refuses a second employee for the same user", func() {
			_, err := service.Create(ctx, f.admin.ID, map[string]any{
				"user_id":    f.owner.ID,
				"first_name": "Budi",
				"last_name":  "Lagi",
				"gender":     "male",
			})
			byField := appErrorOf(err).Details.(internal.ValidationErrors).ByField()
			Expect(byField["user_id"]).To(ConsistOf("The user_id has already been taken."))
		})

		It("requires the identity fields", func() {
			_, err := service.Create(ctx, f.admin.ID, map[string]any{})
			byField := appErrorOf(err).Details.(internal.ValidationErrors).ByField()
			Expect(byField).To(HaveKey("user_id"))
			Expect(byField).To(HaveKey("first_name"))
			Expect(byField).To(HaveKey("last_name"))
			Expect(byField).To(HaveKey("gender"))
			Expect(byField).NotTo(HaveKey("address"))
		})
	})

	It("lists every employee in id order", func() {
		list, err := service.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].UserID).To(Equal(f.owner.ID))
	})
})
