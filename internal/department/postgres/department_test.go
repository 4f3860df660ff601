package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/department"
	departmentPostgres "github.com/frahmantamala/reimbursement-tracker/internal/department/postgres"
)

func TestDepartmentRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Department Repository Suite")
}

// SQLite-compatible models for testing
type SQLiteDepartment struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"column:name;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (SQLiteDepartment) TableName() string {
	return "departments"
}

type SQLiteEmployee struct {
	ID           int64     `gorm:"primaryKey"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Designation  string    `gorm:"column:designation"`
	DepartmentID int64     `gorm:"column:department_id;not null"`
	UserID       *int64    `gorm:"column:user_id;uniqueIndex"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (SQLiteEmployee) TableName() string {
	return "employees"
}

var _ = Describe("Department Repository", func() {
	var (
		db   *gorm.DB
		repo department.Repository
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteDepartment{}, &SQLiteEmployee{})
		Expect(err).NotTo(HaveOccurred())

		repo = departmentPostgres.NewDepartmentRepository(db)
	})

	Describe("Create", func() {
		It("should create a department", func() {
			d := department.NewDepartment("Engineering")

			err := repo.Create(d)

			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).To(BeNumerically(">", 0))
		})

		It("should fail on a duplicate name", func() {
			Expect(repo.Create(department.NewDepartment("Engineering"))).To(Succeed())

			err := repo.Create(department.NewDepartment("Engineering"))

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GetByID and GetByName", func() {
		var deptID int64

		BeforeEach(func() {
			d := department.NewDepartment("Engineering")
			Expect(repo.Create(d)).To(Succeed())
			deptID = d.ID
		})

		It("should fetch by id", func() {
			d, err := repo.GetByID(deptID)

			Expect(err).NotTo(HaveOccurred())
			Expect(d.Name).To(Equal("Engineering"))
		})

		It("should return a typed not found error for a missing id", func() {
			_, err := repo.GetByID(999)

			Expect(err).To(Equal(internal.ErrDepartmentNotFound))
		})

		It("should fetch by name", func() {
			d, err := repo.GetByName("Engineering")

			Expect(err).NotTo(HaveOccurred())
			Expect(d.ID).To(Equal(deptID))
		})

		It("should return nil without error for a missing name", func() {
			d, err := repo.GetByName("Unknown")

			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(BeNil())
		})
	})

	Describe("DeleteIfEmpty", func() {
		var deptID int64

		BeforeEach(func() {
			d := department.NewDepartment("Engineering")
			Expect(repo.Create(d)).To(Succeed())
			deptID = d.ID
		})

		It("should delete a department with no employees", func() {
			err := repo.DeleteIfEmpty(deptID)

			Expect(err).NotTo(HaveOccurred())
			_, getErr := repo.GetByID(deptID)
			Expect(getErr).To(Equal(internal.ErrDepartmentNotFound))
		})

		It("should refuse and keep the row when employees remain", func() {
			err := db.Create(&SQLiteEmployee{
				FirstName:    "Jane",
				LastName:     "Smith",
				Email:        "jane@mail.com",
				DepartmentID: deptID,
			}).Error
			Expect(err).NotTo(HaveOccurred())

			err = repo.DeleteIfEmpty(deptID)

			Expect(err).To(Equal(internal.ErrDepartmentNotEmpty))
			d, getErr := repo.GetByID(deptID)
			Expect(getErr).NotTo(HaveOccurred())
			Expect(d.Name).To(Equal("Engineering"))
		})
	})

	Describe("List", func() {
		It("should order departments by name", func() {
			Expect(repo.Create(department.NewDepartment("Sales"))).To(Succeed())
			Expect(repo.Create(department.NewDepartment("Engineering"))).To(Succeed())

			departments, err := repo.List()

			Expect(err).NotTo(HaveOccurred())
			Expect(departments).To(HaveLen(2))
			Expect(departments[0].Name).To(Equal("Engineering"))
			Expect(departments[1].Name).To(Equal("Sales"))
		})
	})
})
