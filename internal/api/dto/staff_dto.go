package dto

// CreateStaffRequest payload for POST /staff. Role is never accepted from the caller.
type CreateStaffRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
	EmployeeID  string `json:"employeeId"`
	Position    string `json:"position"`
}

// CreateStaffResponse is returned after provisioning.
type CreateStaffResponse struct {
	UID     string `json:"uid"`
	Message string `json:"message"`
}
