package cmd

import (
	"fmt"

	departmentDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-management/pkg/logger"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with an admin account and sample departments, positions and employees.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		lg := logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer sqlDB.Close()

		db, err := initGorm(sqlDB, cfg.Server.Env)
		if err != nil {
			return fmt.Errorf("failed to init gorm: %w", err)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.Security.BCryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		if err := db.Transaction(func(tx *gorm.DB) error {
			if clearData {
				if err := clearSeedData(tx); err != nil {
					return err
				}
				lg.Info("cleared existing data")
			}
			return seed(tx, string(hash))
		}); err != nil {
			return err
		}

		lg.Info("seeding completed", "password", seedPassword)
		return nil
	},
}

func clearSeedData(tx *gorm.DB) error {
	// children first so foreign keys never block the delete
	for _, table := range []string{"employees", "users", "positions", "departments"} {
		if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

type seedEmployee struct {
	email      string
	isAdmin    bool
	firstName  string
	lastName   string
	gender     string
	position   string
	department string
}

func seed(tx *gorm.DB, passwordHash string) error {
	departments := map[string]*departmentDatamodel.Department{}
	for _, d := range []departmentDatamodel.Department{
		{Name: "Head Office", Latitude: -6.2088, Longitude: 106.8456, RadiusMeters: 150},
		{Name: "Warehouse", Latitude: -6.1751, Longitude: 106.8650, RadiusMeters: 300},
	} {
		row := d
		if err := tx.Where(departmentDatamodel.Department{Name: d.Name}).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("failed to seed department %s: %w", d.Name, err)
		}
		departments[row.Name] = &row
	}

	positions := map[string]*positionDatamodel.Position{}
	for _, p := range []positionDatamodel.Position{
		{Name: "HR Manager", RateReguler: 150000, RateOvertime: 225000},
		{Name: "Staff", RateReguler: 50000, RateOvertime: 75000},
	} {
		row := p
		if err := tx.Where(positionDatamodel.Position{Name: p.Name}).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("failed to seed position %s: %w", p.Name, err)
		}
		positions[row.Name] = &row
	}

	people := []seedEmployee{
		{email: "admin@mail.com", isAdmin: true, firstName: "Padil", lastName: "Admin", gender: "male", position: "HR Manager", department: "Head Office"},
		{email: "fadhil@mail.com", firstName: "Fadhil", lastName: "Rahman", gender: "male", position: "Staff", department: "Warehouse"},
	}
	for _, p := range people {
		u := userDatamodel.User{Email: p.email, Password: passwordHash, IsAdmin: p.isAdmin}
		if err := tx.Where(userDatamodel.User{Email: p.email}).FirstOrCreate(&u).Error; err != nil {
			return fmt.Errorf("failed to seed user %s: %w", p.email, err)
		}

		e := employeeDatamodel.Employee{
			UserID:           u.ID,
			FirstName:        p.firstName,
			LastName:         p.lastName,
			Gender:           p.gender,
			EmploymentStatus: "active",
			PositionID:       &positions[p.position].ID,
			DepartmentID:     &departments[p.department].ID,
		}
		if err := tx.Omit("User", "Position", "Department").
			Where(employeeDatamodel.Employee{UserID: u.ID}).
			FirstOrCreate(&e).Error; err != nil {
			return fmt.Errorf("failed to seed employee for %s: %w", p.email, err)
		}
	}
	return nil
}
