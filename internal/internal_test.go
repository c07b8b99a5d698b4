package internal_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/frahmantamala/hr-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, *",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{Source: "postgres://localhost/hr", MaxOpenConns: 10, MaxIdleConns: 5},
		Security: internal.SecurityConfig{
			JWTSecret:           "0123456789abcdef0123456789abcdef",
			AccessTokenDuration: time.Hour,
			BCryptCost:          10,
		},
		HR: internal.HRConfig{UnauthorizedFields: "reject"},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("aggregates errors from every section", func() {
		cfg := validConfig()
		cfg.Database.Source = ""
		cfg.Security.JWTSecret = "short"
		cfg.HR.UnauthorizedFields = "ignore"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("database config: source is required"))
		Expect(err.Error()).To(ContainSubstring("jwt_secret must be at least 32 characters"))
		Expect(err.Error()).To(ContainSubstring(`unauthorized_fields must be reject or drop, got "ignore"`))
	})

	It("rejects more idle than open connections", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 20
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("rejects a read timeout shorter than the header timeout", func() {
		cfg := validConfig()
		cfg.Server.ReadTimeout = time.Second
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("read_timeout")))
	})

	It("loads defaults and overrides from the environment", func() {
		GinkgoT().Setenv("HTTP_PORT", "9090")
		GinkgoT().Setenv("ACCESS_TOKEN_DURATION", "30m")
		GinkgoT().Setenv("HR_UNAUTHORIZED_FIELDS", "drop")
		GinkgoT().Setenv("BCRYPT_COST", "not-a-number")

		cfg := internal.LoadConfigFromEnv()
		Expect(cfg.Server.Port).To(Equal(9090))
		Expect(cfg.Security.AccessTokenDuration).To(Equal(30 * time.Minute))
		Expect(cfg.Security.BCryptCost).To(Equal(12))
		Expect(cfg.HR.UnauthorizedFields).To(Equal("drop"))
	})
})

var _ = Describe("AppError", func() {
	It("is found through wrapping", func() {
		wrapped := fmt.Errorf("loading: %w", internal.NewNotFoundError("Position not found", internal.ErrCodePositionNotFound))
		appErr, ok := internal.IsAppError(wrapped)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(404))
	})

	It("keeps the cause out of the JSON form", func() {
		appErr := internal.NewInternalError(internal.InternalErrorMessage, errors.New("connection refused"))
		Expect(errors.Unwrap(appErr)).To(MatchError("connection refused"))

		body, err := appErr.MarshalJSON()
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).NotTo(ContainSubstring("connection refused"))
	})

	It("groups validation messages by field", func() {
		appErr := internal.NewValidationErrors([]internal.ValidationError{
			{Field: "name", Message: "The name field is required."},
			{Field: "rate_reguler", Message: "The rate reguler must be a number."},
			{Field: "name", Message: "The name may not be greater than 100 characters."},
		})
		Expect(appErr.StatusCode).To(Equal(422))
		details, ok := appErr.Details.(internal.ValidationErrors)
		Expect(ok).To(BeTrue())
		Expect(details.ByField()).To(HaveKeyWithValue("name", HaveLen(2)))
		Expect(appErr.Error()).To(Equal("The name field is required."))
	})

	It("names the denied fields on forbidden updates", func() {
		appErr := internal.NewFieldsDeniedError([]string{"employment_status"})
		Expect(appErr.StatusCode).To(Equal(403))
		Expect(appErr.Details).To(Equal(internal.DeniedFields{Fields: []string{"employment_status"}}))
	})
})

var _ = Describe("Principal context", func() {
	It("round-trips the caller", func() {
		ctx := internal.ContextWithPrincipal(context.Background(), internal.Principal{UserID: 7, IsAdmin: true})
		p, ok := internal.PrincipalFromContext(ctx)
		Expect(ok).To(BeTrue())
		Expect(p.UserID).To(Equal(int64(7)))
	})

	It("reports a missing caller", func() {
		_, ok := internal.PrincipalFromContext(context.Background())
		Expect(ok).To(BeFalse())
	})
})
