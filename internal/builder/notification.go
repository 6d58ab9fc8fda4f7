package builder

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is the user-visible outcome of a workflow step. Redirect, when
// set, is the page the user should be sent to next.
type Notification struct {
	Level    Level  `json:"level,omitempty"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (n Notification) IsZero() bool {
	return n == Notification{}
}

func success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg}
}

func failure(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}

const (
	PathDashboard = "/dashboard"
	PathLogin     = "/login"
)

func ViewPath(id string) string { return "/view-resume/" + id }
func EditPath(id string) string { return "/edit-resume/" + id }

const (
	MsgFullNameRequired = "Please enter your full name"
	MsgCreated          = "Resume created successfully!"
	MsgCreateFailed     = "Failed to create resume"
	MsgUpdated          = "Resume updated successfully!"
	MsgUpdateFailed     = "Failed to update resume"
	MsgNotFound         = "Resume not found"
	MsgLoadFailed       = "Failed to load resume"
	MsgListFailed       = "Failed to load resumes"
	MsgDeleted          = "Resume deleted successfully"
	MsgDeleteFailed     = "Failed to delete resume"
	MsgDownloaded       = "Resume downloaded successfully!"
	MsgDownloadFailed   = "Failed to download resume"
	MsgNoPreview        = "Could not find resume preview"
	MsgDraftCleared     = "Draft cleared"
)
