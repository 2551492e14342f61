package web

const (
	MsgInvalidRequest        = "Invalid request. Please try again."
	MsgLoginWrongCredentials = "Invalid username or password."
	MsgLoginSessionExpired   = "Session expired. Please log in again."
	MsgPermissionDenied      = "You do not have permission to access this page."
	MsgIssueNotFound         = "Issue not found."
	MsgIssueScopeDenied      = "You do not have permission to access this issue."
	MsgIssueFieldsRequired   = "Title and description are required."
	MsgIssueInvalidChoice    = "Invalid category, priority or status."
	MsgUserNotFound          = "User not found."
	MsgUsernameTaken         = "Username already exists."
	MsgUserFieldsRequired    = "Username and password are required."
	MsgPasswordTooShort      = "Password must be at least 6 characters long."
	MsgPasswordMismatch      = "Passwords do not match."
	MsgScopeRequired         = "Company and department are required for HOD and Viewer roles."
	MsgSelfDeleteRefused     = "You cannot delete your own account."
	MsgNameRequired          = "Name is required."
	MsgNameTaken             = "An entry with that name already exists."
	MsgDocumentNotFound      = "Document not found."
	MsgNoFileSelected        = "No file selected."
	MsgOnlyPDFAllowed        = "Only PDF files are allowed."
	MsgFileMissing           = "File not found on server."
	MsgStoreBusy             = "The system is busy. Please try again."
	MsgInvalidBackupFile     = "Invalid backup file. Please upload a .zip backup."
	MsgResetNotConfirmed     = "Invalid confirmation. Type 'RESET DATABASE' exactly to confirm."
	MsgDatabaseRestored      = "Database restored. Please log in again."
	MsgDatabaseReset         = "Database has been reset to factory defaults. Please log in again."
)

// mapErrorCode translates a query-encoded error code back into the message
// shown on the page the user was redirected to.
func mapErrorCode(code string) string {
	switch code {
	case "":
		return ""
	case "credentials":
		return MsgLoginWrongCredentials
	case "session_expired":
		return MsgLoginSessionExpired
	case "denied":
		return MsgPermissionDenied
	case "issue_not_found":
		return MsgIssueNotFound
	case "issue_scope":
		return MsgIssueScopeDenied
	case "issue_fields":
		return MsgIssueFieldsRequired
	case "issue_choice":
		return MsgIssueInvalidChoice
	case "user_not_found":
		return MsgUserNotFound
	case "username_taken":
		return MsgUsernameTaken
	case "user_fields":
		return MsgUserFieldsRequired
	case "password_short":
		return MsgPasswordTooShort
	case "password_mismatch":
		return MsgPasswordMismatch
	case "scope_required":
		return MsgScopeRequired
	case "self_delete":
		return MsgSelfDeleteRefused
	case "name_required":
		return MsgNameRequired
	case "name_taken":
		return MsgNameTaken
	case "document_not_found":
		return MsgDocumentNotFound
	case "no_file":
		return MsgNoFileSelected
	case "only_pdf":
		return MsgOnlyPDFAllowed
	case "file_missing":
		return MsgFileMissing
	case "store_busy":
		return MsgStoreBusy
	case "bad_backup":
		return MsgInvalidBackupFile
	case "reset_confirm":
		return MsgResetNotConfirmed
	case "restored":
		return MsgDatabaseRestored
	case "reset_done":
		return MsgDatabaseReset
	case "not_found":
		return MsgInvalidRequest
	default:
		return MsgInvalidRequest
	}
}
