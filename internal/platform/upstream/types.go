package upstream

// EmployeeRecord: GET /api/Employee/EditRecord の応答。
// フィールド名（first_Name, permenant_Address 等）は上流のまま。
type EmployeeRecord struct {
	EmpID            string `json:"empID"`
	FirstName        string `json:"first_Name"`
	LastName         string `json:"last_Name"`
	EmpCode          string `json:"empCode"`
	CompanyName      string `json:"companyName"`
	BranchName       string `json:"branchName"`
	Designation      string `json:"designation"`
	Grade            string `json:"grade"`
	JoiningDate      string `json:"cDate"`
	DepName          string `json:"depName"`
	ReportingManager string `json:"reporting_Manager"`

	BankAccountHolderName string `json:"bank_Account_Holder_Name"`
	BankAccountNumber     string `json:"bank_Account_Number"`
	BankIFSCCode          string `json:"bank_IFSC_Code"`
	BankName              string `json:"bank_Name"`
	BranchLocation        string `json:"branch_Location"`

	Email            string `json:"email"`
	ContactNo        string `json:"contactNo"`
	AltContactNo     string `json:"altContactNo"`
	PresentAddress   string `json:"present_Address"`
	PermanentAddress string `json:"permenant_Address"`
}

// PunchRecord: POST /api/Attendance/Create_MA のペイロード。
type PunchRecord struct {
	AttDate     string `json:"attDate"`   // dd/MM/yyyy
	PunchTime   string `json:"punchTime"` // "dd/MM/yyyy HH:mm" 24時間表記
	CompanyID   int64  `json:"companyID"`
	CompanyName string `json:"companyName"`
	BranchID    int64  `json:"branchID"`
	BranchName  string `json:"branchName"`
	EmpName     string `json:"empName"`
	EmpCode     string `json:"empCode"`
	Location    string `json:"location"` // 短縮形（street, city）
	Reason      string `json:"reason"`
	HalfDay     string `json:"halfDay"`
	AttFlag     string `json:"attFlag"` // 常に "P"
	AttType     string `json:"attType"` // 常に "mobile"
	Remarks     string `json:"remarks"` // 完全形住所
}

// LoginResult: POST /api/Login/Login は1要素の配列で返す。
type LoginResult struct {
	Token     string `json:"token"`
	EmpID     string `json:"empID"`
	UserID    string `json:"userID"`
	CompanyID int64  `json:"companyID"`
	BranchID  int64  `json:"branchID"`
	EmpCode   string `json:"empCode"`
}

// LeaveType: ドロップダウン用 {text, value}
type LeaveType struct {
	Label string `json:"text"`
	Value string `json:"value"`
}

// LeaveRequestRecord: POST /api/LeaveRequest/Create のペイロード。
type LeaveRequestRecord struct {
	LeaveType       string `json:"leaveType"` // Single | Multiple
	FromDate        string `json:"fromDate"`  // dd/MM/yyyy
	ToDate          string `json:"toDate"`
	Nod             string `json:"nod"`      // 日数（半休は "0.5"）
	HalfDay         string `json:"half_Day"` // Yes | No
	LeaveCategoryID string `json:"leaveCategoryID"`
	LeaveCategory   string `json:"leaveCategory"`
	Reason          string `json:"reason"`
	AppliedOn       string `json:"appliedOn"`
	EmpID           string `json:"empID"`
	EmpName         string `json:"empName"`
	BranchID        int64  `json:"branchID"`
	BranchName      string `json:"branchName"`
	CompanyID       int64  `json:"companyID"`
	CompanyName     string `json:"companyName"`
}
