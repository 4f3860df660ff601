package department_test

import (
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/auth"
	"github.com/frahmantamala/reimbursement-tracker/internal/department"
)

func TestDepartmentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Service Suite")
}

// Mock repository for testing. employeeCounts lets a spec mark a department
// as still owning employees so DeleteIfEmpty refuses, matching the guarded
// delete of the real store.
type mockDepartmentRepository struct {
	departments    map[int64]*department.Department
	employeeCounts map[int64]int
	createError    error
	nextID         int64
}

func newMockDepartmentRepository() *mockDepartmentRepository {
	return &mockDepartmentRepository{
		departments:    make(map[int64]*department.Department),
		employeeCounts: make(map[int64]int),
		nextID:         1,
	}
}

func (m *mockDepartmentRepository) Create(d *department.Department) error {
	if m.createError != nil {
		return m.createError
	}
	d.ID = m.nextID
	m.nextID++
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()
	copied := *d
	m.departments[d.ID] = &copied
	return nil
}

func (m *mockDepartmentRepository) GetByID(id int64) (*department.Department, error) {
	d, exists := m.departments[id]
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}
	copied := *d
	return &copied, nil
}

func (m *mockDepartmentRepository) GetByName(name string) (*department.Department, error) {
	for _, d := range m.departments {
		if d.Name == name {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockDepartmentRepository) List() ([]*department.Department, error) {
	result := make([]*department.Department, 0, len(m.departments))
	for _, d := range m.departments {
		copied := *d
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockDepartmentRepository) Update(d *department.Department) error {
	copied := *d
	m.departments[d.ID] = &copied
	return nil
}

func (m *mockDepartmentRepository) DeleteIfEmpty(id int64) error {
	if m.employeeCounts[id] > 0 {
		return internal.ErrDepartmentNotEmpty
	}
	delete(m.departments, id)
	return nil
}

func admin() *auth.Principal {
	return &auth.Principal{UserID: 1, Role: auth.RoleAdmin}
}

func employee() *auth.Principal {
	eid := int64(1)
	return &auth.Principal{UserID: 2, Role: auth.RoleEmployee, EmployeeID: &eid}
}

var _ = Describe("DepartmentService", func() {
	var (
		service  *department.Service
		mockRepo *mockDepartmentRepository
	)

	BeforeEach(func() {
		mockRepo = newMockDepartmentRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = department.NewService(mockRepo, logger)
	})

	Describe("CreateDepartment", func() {
		It("should create a department for an admin", func() {
			d, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})

			Expect(err).ToNot(HaveOccurred())
			Expect(d.ID).To(BeNumerically(">", 0))
			Expect(d.Name).To(Equal("Engineering"))
		})

		It("should deny non-admin principals", func() {
			d, err := service.CreateDepartment(employee(), department.CreateDepartmentDTO{Name: "Engineering"})

			Expect(err).To(Equal(internal.ErrAdminOnly))
			Expect(d).To(BeNil())
		})

		It("should reject an empty name", func() {
			d, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: ""})

			Expect(err).To(HaveOccurred())
			Expect(d).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should reject a duplicate name", func() {
			_, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})
			Expect(err).ToNot(HaveOccurred())

			d, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})

			Expect(err).To(HaveOccurred())
			Expect(d).To(BeNil())
		})
	})

	Describe("UpdateDepartment", func() {
		var deptID int64

		BeforeEach(func() {
			d, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})
			Expect(err).ToNot(HaveOccurred())
			deptID = d.ID
		})

		It("should rename the department", func() {
			d, err := service.UpdateDepartment(admin(), deptID, department.UpdateDepartmentDTO{Name: "Platform"})

			Expect(err).ToNot(HaveOccurred())
			Expect(d.Name).To(Equal("Platform"))
		})

		It("should allow keeping the same name", func() {
			d, err := service.UpdateDepartment(admin(), deptID, department.UpdateDepartmentDTO{Name: "Engineering"})

			Expect(err).ToNot(HaveOccurred())
			Expect(d.Name).To(Equal("Engineering"))
		})

		It("should reject renaming to another department's name", func() {
			_, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Finance"})
			Expect(err).ToNot(HaveOccurred())

			d, err := service.UpdateDepartment(admin(), deptID, department.UpdateDepartmentDTO{Name: "Finance"})

			Expect(err).To(HaveOccurred())
			Expect(d).To(BeNil())
		})

		It("should deny non-admin principals", func() {
			d, err := service.UpdateDepartment(employee(), deptID, department.UpdateDepartmentDTO{Name: "Platform"})

			Expect(err).To(Equal(internal.ErrAdminOnly))
			Expect(d).To(BeNil())
		})

		It("should return not found for a missing department", func() {
			_, err := service.UpdateDepartment(admin(), 999, department.UpdateDepartmentDTO{Name: "Platform"})

			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})

	Describe("DeleteDepartment", func() {
		var deptID int64

		BeforeEach(func() {
			d, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})
			Expect(err).ToNot(HaveOccurred())
			deptID = d.ID
		})

		It("should delete an empty department", func() {
			err := service.DeleteDepartment(admin(), deptID)

			Expect(err).ToNot(HaveOccurred())
			_, err = service.GetDepartment(deptID)
			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})

		It("should refuse to delete a department that still owns employees", func() {
			mockRepo.employeeCounts[deptID] = 3

			err := service.DeleteDepartment(admin(), deptID)

			Expect(err).To(Equal(internal.ErrDepartmentNotEmpty))
			_, getErr := service.GetDepartment(deptID)
			Expect(getErr).ToNot(HaveOccurred())
		})

		It("should deny non-admin principals", func() {
			err := service.DeleteDepartment(employee(), deptID)

			Expect(err).To(Equal(internal.ErrAdminOnly))
		})

		It("should return not found for a missing department", func() {
			err := service.DeleteDepartment(admin(), 999)

			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})
	})

	Describe("GetDepartment and ListDepartments", func() {
		It("should list created departments", func() {
			_, err := service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Engineering"})
			Expect(err).ToNot(HaveOccurred())
			_, err = service.CreateDepartment(admin(), department.CreateDepartmentDTO{Name: "Finance"})
			Expect(err).ToNot(HaveOccurred())

			departments, err := service.ListDepartments()

			Expect(err).ToNot(HaveOccurred())
			Expect(departments).To(HaveLen(2))
		})
	})
})
