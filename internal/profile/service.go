package profile

import (
	"context"
	"fmt"
	"strings"

	"oasis-hr-gateway/internal/platform/upstream"
)

// 社員プロフィール画面の読み取り専用ビュー。パネル単位にまとめ直すだけで
// ローカルの変更は一切ない。

type Directory interface {
	EmployeeEditRecord(ctx context.Context, companyID, branchID int64, empID string) (*upstream.EmployeeRecord, error)
}

type Service struct {
	dir Directory
}

func NewService(dir Directory) *Service {
	return &Service{dir: dir}
}

type PersonalPanel struct {
	Designation      string `json:"designation"`
	Grade            string `json:"grade"`
	Branch           string `json:"branch"`
	JoiningDate      string `json:"joining_date"`
	Department       string `json:"department"`
	ReportingManager string `json:"reporting_manager"`
}

type BankPanel struct {
	AccountHolderName string `json:"account_holder_name"`
	AccountNumber     string `json:"account_number"`
	IFSCCode          string `json:"ifsc_code"`
	BankName          string `json:"bank_name"`
	BranchLocation    string `json:"branch_location"`
}

type ContactPanel struct {
	Email            string `json:"email"`
	ContactNo        string `json:"contact_no"`
	AltContactNo     string `json:"alt_contact_no"`
	PresentAddress   string `json:"present_address"`
	PermanentAddress string `json:"permanent_address"`
}

type ProfileResponse struct {
	EmpID    string        `json:"emp_id"`
	FullName string        `json:"full_name"`
	EmpCode  string        `json:"emp_code"`
	Personal PersonalPanel `json:"personal"`
	Bank     BankPanel     `json:"bank"`
	Contact  ContactPanel  `json:"contact"`
}

func (s *Service) Get(ctx context.Context, companyID, branchID int64, empID string) (*ProfileResponse, error) {
	rec, err := s.dir.EmployeeEditRecord(ctx, companyID, branchID, empID)
	if err != nil {
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	if rec.FirstName == "" {
		// first_Name すら無い応答は有効な社員データとみなさない
		return nil, ErrNoData
	}

	return &ProfileResponse{
		EmpID:    rec.EmpID,
		FullName: strings.TrimSpace(rec.FirstName + " " + rec.LastName),
		EmpCode:  rec.EmpCode,
		Personal: PersonalPanel{
			Designation:      rec.Designation,
			Grade:            rec.Grade,
			Branch:           rec.BranchName,
			JoiningDate:      rec.JoiningDate,
			Department:       rec.DepName,
			ReportingManager: rec.ReportingManager,
		},
		Bank: BankPanel{
			AccountHolderName: rec.BankAccountHolderName,
			AccountNumber:     rec.BankAccountNumber,
			IFSCCode:          rec.BankIFSCCode,
			BankName:          rec.BankName,
			BranchLocation:    rec.BranchLocation,
		},
		Contact: ContactPanel{
			Email:            rec.Email,
			ContactNo:        rec.ContactNo,
			AltContactNo:     rec.AltContactNo,
			PresentAddress:   rec.PresentAddress,
			PermanentAddress: rec.PermanentAddress,
		},
	}, nil
}
