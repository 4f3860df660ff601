package auth

import (
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/reimbursement-tracker/internal"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository for testing
type mockAuthRepository struct {
	credentials map[string]struct {
		userID int64
		hash   string
	}
	principals map[int64]*Principal
}

func newMockAuthRepository() *mockAuthRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)
	employeeID := int64(7)

	return &mockAuthRepository{
		credentials: map[string]struct {
			userID int64
			hash   string
		}{
			"admin@mail.com":    {userID: 1, hash: string(hashedPassword)},
			"employee@mail.com": {userID: 2, hash: string(hashedPassword)},
		},
		principals: map[int64]*Principal{
			1: {UserID: 1, Name: "Admin", Email: "admin@mail.com", Role: RoleAdmin},
			2: {UserID: 2, Name: "Jane Smith", Email: "employee@mail.com", Role: RoleEmployee, EmployeeID: &employeeID},
		},
	}
}

func (m *mockAuthRepository) GetCredentialsByEmail(email string) (int64, string, error) {
	cred, exists := m.credentials[email]
	if !exists {
		return 0, "", internal.ErrUserNotFound
	}
	return cred.userID, cred.hash, nil
}

func (m *mockAuthRepository) GetPrincipal(userID int64) (*Principal, error) {
	p, exists := m.principals[userID]
	if !exists {
		return nil, internal.ErrUserNotFound
	}
	return p, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockAuthRepository
		tokenGen *JWTTokenGenerator
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockAuthRepository()
		tokenGen = NewJWTTokenGenerator(
			"test-access-secret-test-access-secret",
			"test-refresh-secret-test-refresh-secret",
			15*time.Minute,
			24*time.Hour,
		)
		service = NewService(mockRepo, tokenGen)
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return access and refresh tokens", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "admin@mail.com",
					Password: "correct_password",
				})

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
				gomega.Expect(tokens.AccessToken).ToNot(gomega.Equal(tokens.RefreshToken))
			})

			ginkgo.It("should embed the user identity in the access token", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "employee@mail.com",
					Password: "correct_password",
				})
				gomega.Expect(err).ToNot(gomega.HaveOccurred())

				claims, err := service.ValidateAccessToken(tokens.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal("2"))
				gomega.Expect(claims.Email).To(gomega.Equal("employee@mail.com"))
			})
		})

		ginkgo.Context("when the password is wrong", func() {
			ginkgo.It("should return invalid credentials", func() {
				tokens, err := service.Authenticate(LoginDTO{
					Email:    "admin@mail.com",
					Password: "wrong_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
				gomega.Expect(tokens.AccessToken).To(gomega.BeEmpty())
			})
		})

		ginkgo.Context("when the user does not exist", func() {
			ginkgo.It("should return invalid credentials, not a lookup error", func() {
				_, err := service.Authenticate(LoginDTO{
					Email:    "nobody@mail.com",
					Password: "correct_password",
				})

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("when the payload is incomplete", func() {
			ginkgo.It("should reject a missing email", func() {
				_, err := service.Authenticate(LoginDTO{Password: "whatever"})

				gomega.Expect(err).To(gomega.HaveOccurred())
			})

			ginkgo.It("should reject a missing password", func() {
				_, err := service.Authenticate(LoginDTO{Email: "admin@mail.com"})

				gomega.Expect(err).To(gomega.HaveOccurred())
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a fresh pair for a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "admin@mail.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(refreshed.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject a garbage token", func() {
			_, err := service.RefreshTokens("not-a-token")

			gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidToken))
		})
	})

	ginkgo.Describe("GetPrincipal", func() {
		ginkgo.It("should resolve the admin principal without an employee link", func() {
			p, err := service.GetPrincipal(1)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Role).To(gomega.Equal(RoleAdmin))
			gomega.Expect(p.EmployeeID).To(gomega.BeNil())
		})

		ginkgo.It("should resolve the employee principal with its link", func() {
			p, err := service.GetPrincipal(2)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(p.Role).To(gomega.Equal(RoleEmployee))
			gomega.Expect(p.EmployeeID).ToNot(gomega.BeNil())
			gomega.Expect(*p.EmployeeID).To(gomega.Equal(int64(7)))
		})
	})
})

var _ = ginkgo.Describe("Principal predicates", func() {
	employeeID := int64(7)
	adminP := &Principal{UserID: 1, Role: RoleAdmin}
	employeeP := &Principal{UserID: 2, Role: RoleEmployee, EmployeeID: &employeeID}
	unlinkedP := &Principal{UserID: 3, Role: RoleEmployee}

	ginkgo.Describe("RequireAdmin", func() {
		ginkgo.It("should pass admins and refuse everyone else", func() {
			gomega.Expect(RequireAdmin(adminP)).To(gomega.Succeed())
			gomega.Expect(RequireAdmin(employeeP)).To(gomega.Equal(internal.ErrAdminOnly))
			gomega.Expect(RequireAdmin(nil)).To(gomega.Equal(internal.ErrAdminOnly))
		})
	})

	ginkgo.Describe("RequireEmployee", func() {
		ginkgo.It("should pass employees and refuse admins", func() {
			gomega.Expect(RequireEmployee(employeeP)).To(gomega.Succeed())
			gomega.Expect(RequireEmployee(adminP)).To(gomega.Equal(internal.ErrEmployeeOnly))
			gomega.Expect(RequireEmployee(nil)).To(gomega.Equal(internal.ErrEmployeeOnly))
		})
	})

	ginkgo.Describe("RequireOwner", func() {
		ginkgo.It("should always pass admins", func() {
			gomega.Expect(RequireOwner(adminP, 999)).To(gomega.Succeed())
		})

		ginkgo.It("should pass the linked employee for its own id", func() {
			gomega.Expect(RequireOwner(employeeP, 7)).To(gomega.Succeed())
		})

		ginkgo.It("should refuse other ids and unlinked principals", func() {
			gomega.Expect(RequireOwner(employeeP, 8)).To(gomega.Equal(internal.ErrNotOwner))
			gomega.Expect(RequireOwner(unlinkedP, 7)).To(gomega.Equal(internal.ErrNotOwner))
			gomega.Expect(RequireOwner(nil, 7)).To(gomega.Equal(internal.ErrNotOwner))
		})
	})
})

var _ = ginkgo.Describe("GenerateOneTimeCredential", func() {
	ginkgo.It("should produce 32 printable hex characters", func() {
		credential, err := GenerateOneTimeCredential()

		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(credential).To(gomega.HaveLen(32))
		gomega.Expect(credential).To(gomega.MatchRegexp("^[0-9a-f]+$"))
	})

	ginkgo.It("should not repeat", func() {
		first, err := GenerateOneTimeCredential()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		second, err := GenerateOneTimeCredential()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		gomega.Expect(first).ToNot(gomega.Equal(second))
	})
})
