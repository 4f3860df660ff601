package postgres_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frahmantamala/reimbursement-tracker/internal"
	"github.com/frahmantamala/reimbursement-tracker/internal/bill"
	billPostgres "github.com/frahmantamala/reimbursement-tracker/internal/bill/postgres"
)

func TestBillRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bill Repository Suite")
}

// SQLite-compatible models for testing
type SQLiteBill struct {
	ID          int64     `gorm:"primaryKey"`
	Amount      string    `gorm:"column:amount;not null"`
	BillType    string    `gorm:"column:bill_type;not null"`
	Status      string    `gorm:"column:status;not null;default:pending"`
	EmployeeID  int64     `gorm:"column:employee_id;not null"`
	SubmittedBy string    `gorm:"column:submitted_by;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (SQLiteBill) TableName() string {
	return "bills"
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

var _ = Describe("Bill Repository", func() {
	var (
		db   *gorm.DB
		repo bill.Repository
	)

	newBill := func(employeeID int64, amount int64, billType string) *bill.Bill {
		return bill.NewBill(employeeID, "Jane Smith", decimal.NewFromInt(amount), bill.Type(billType))
	}

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&SQLiteBill{}, &SQLiteEmployee{})
		Expect(err).NotTo(HaveOccurred())

		err = db.Create(&SQLiteEmployee{
			ID:           1,
			FirstName:    "Jane",
			LastName:     "Smith",
			Email:        "jane@mail.com",
			Designation:  "Engineer",
			DepartmentID: 1,
		}).Error
		Expect(err).NotTo(HaveOccurred())

		repo = billPostgres.NewBillRepository(db)
	})

	Describe("Create", func() {
		It("should persist a pending bill and fill generated fields", func() {
			b := newBill(1, 100, "travel")

			err := repo.Create(b)

			Expect(err).NotTo(HaveOccurred())
			Expect(b.ID).To(BeNumerically(">", 0))

			stored, err := repo.GetByID(b.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(bill.StatusPending))
			Expect(stored.SubmittedBy).To(Equal("Jane Smith"))
			Expect(stored.Amount.Equal(decimal.NewFromInt(100))).To(BeTrue())
		})
	})

	Describe("GetByID", func() {
		It("should return a typed not found error for a missing bill", func() {
			_, err := repo.GetByID(999)

			Expect(err).To(Equal(internal.ErrBillNotFound))
		})
	})

	Describe("UpdateStatus", func() {
		var billID int64

		BeforeEach(func() {
			b := newBill(1, 100, "food")
			Expect(repo.Create(b)).To(Succeed())
			billID = b.ID
		})

		It("should swap when the stored status matches", func() {
			swapped, err := repo.UpdateStatus(billID, bill.StatusPending, bill.StatusApproved)

			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			stored, err := repo.GetByID(billID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(bill.StatusApproved))
		})

		It("should refuse the swap when the stored status moved", func() {
			swapped, err := repo.UpdateStatus(billID, bill.StatusPending, bill.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			// Second approval attempt finds the status already changed.
			swapped, err = repo.UpdateStatus(billID, bill.StatusPending, bill.StatusRejected)
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeFalse())

			stored, err := repo.GetByID(billID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(bill.StatusApproved))
		})

		It("should support the revoke round trip", func() {
			swapped, err := repo.UpdateStatus(billID, bill.StatusPending, bill.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			swapped, err = repo.UpdateStatus(billID, bill.StatusApproved, bill.StatusPending)
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())

			stored, err := repo.GetByID(billID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(bill.StatusPending))
		})

		It("should report no swap for a missing bill", func() {
			swapped, err := repo.UpdateStatus(999, bill.StatusPending, bill.StatusApproved)

			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeFalse())
		})
	})

	Describe("listing and sums", func() {
		BeforeEach(func() {
			db.Create(&SQLiteEmployee{
				ID:           2,
				FirstName:    "John",
				LastName:     "Doe",
				Email:        "john@mail.com",
				Designation:  "Analyst",
				DepartmentID: 1,
			})

			first := newBill(1, 100, "travel")
			second := newBill(1, 50, "food")
			third := newBill(2, 25, "others")
			Expect(repo.Create(first)).To(Succeed())
			Expect(repo.Create(second)).To(Succeed())
			Expect(repo.Create(third)).To(Succeed())

			swapped, err := repo.UpdateStatus(second.ID, bill.StatusPending, bill.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(swapped).To(BeTrue())
		})

		It("should list all bills", func() {
			bills, err := repo.ListAll()

			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(HaveLen(3))
		})

		It("should list only one employee's bills", func() {
			bills, err := repo.ListByEmployee(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(bills).To(HaveLen(2))
			for _, b := range bills {
				Expect(b.EmployeeID).To(Equal(int64(1)))
			}
		})

		It("should sum all bills", func() {
			total, err := repo.SumAll()

			Expect(err).NotTo(HaveOccurred())
			Expect(total.Equal(decimal.NewFromInt(175))).To(BeTrue())
		})

		It("should sum by status", func() {
			total, err := repo.SumByStatus(bill.StatusApproved)

			Expect(err).NotTo(HaveOccurred())
			Expect(total.Equal(decimal.NewFromInt(50))).To(BeTrue())
		})

		It("should sum by employee and status", func() {
			total, err := repo.SumByEmployee(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(total.Equal(decimal.NewFromInt(150))).To(BeTrue())

			approved, err := repo.SumByEmployeeAndStatus(1, bill.StatusApproved)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Equal(decimal.NewFromInt(50))).To(BeTrue())
		})

		It("should return zero sums for an employee without bills", func() {
			total, err := repo.SumByEmployee(999)

			Expect(err).NotTo(HaveOccurred())
			Expect(total.IsZero()).To(BeTrue())
		})
	})

	Describe("GetSubmitterName", func() {
		It("should join first and last name", func() {
			name, err := repo.GetSubmitterName(1)

			Expect(err).NotTo(HaveOccurred())
			Expect(name).To(Equal("Jane Smith"))
		})

		It("should return a typed not found error for a missing employee", func() {
			_, err := repo.GetSubmitterName(999)

			Expect(err).To(Equal(internal.ErrEmployeeNotFound))
		})
	})
})
