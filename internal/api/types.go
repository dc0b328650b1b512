package api

import (
	"encoding/json"
	"strings"
)

// Job statuses reported by the backend.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusPDFReady   = "pdf_ready"
	StatusSigned     = "signed"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Step statuses reported by the backend.
const (
	StepPending = "pending"
	StepRunning = "running"
	StepSuccess = "success"
	StepFailed  = "failed"
)

// User describes a Rationale Studio account.
type User struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile"`
	Role       string `json:"role"`
	AvatarPath string `json:"avatar_path"`
	JobCount   int    `json:"job_count"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

// DisplayName returns the user's full name, falling back to the email.
func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Email
	}
	return name
}

// Step is one pipeline step of a job, normalized from the wire format. The
// backend emits output files and timestamps in both camelCase and snake_case
// depending on the code path; UnmarshalJSON accepts either.
type Step struct {
	StepNumber  int
	Name        string
	Description string
	Status      string
	Message     string
	OutputFiles []string
	StartedAt   string
	EndedAt     string
}

func (s *Step) UnmarshalJSON(data []byte) error {
	var raw struct {
		StepNumber   int      `json:"step_number"`
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		Status       string   `json:"status"`
		Message      string   `json:"message"`
		OutputFiles  []string `json:"outputFiles"`
		OutputFiles2 []string `json:"output_files"`
		StartedAt    string   `json:"startedAt"`
		StartedAt2   string   `json:"started_at"`
		EndedAt      string   `json:"endedAt"`
		EndedAt2     string   `json:"ended_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.StepNumber = raw.StepNumber
	s.Name = raw.Name
	s.Description = raw.Description
	s.Status = raw.Status
	s.Message = raw.Message
	s.OutputFiles = raw.OutputFiles
	if len(s.OutputFiles) == 0 {
		s.OutputFiles = raw.OutputFiles2
	}
	s.StartedAt = firstNonEmpty(raw.StartedAt, raw.StartedAt2)
	s.EndedAt = firstNonEmpty(raw.EndedAt, raw.EndedAt2)
	return nil
}

func (s Step) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		StepNumber  int      `json:"step_number"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Status      string   `json:"status"`
		Message     string   `json:"message,omitempty"`
		OutputFiles []string `json:"outputFiles,omitempty"`
		StartedAt   string   `json:"startedAt,omitempty"`
		EndedAt     string   `json:"endedAt,omitempty"`
	}{s.StepNumber, s.Name, s.Description, s.Status, s.Message, s.OutputFiles, s.StartedAt, s.EndedAt})
}

// Job is the normalized job record.
type Job struct {
	ID              string
	UserID          string
	ToolUsed        string
	VideoTitle      string
	VideoID         string
	VideoUploadDate string
	YoutubeURL      string
	Duration        string
	ChannelName     string
	ChannelLogo     string
	Status          string
	CurrentStep     int
	Progress        int
	Steps           []Step
	UnsignedPDFPath string
	SignedPDFPath   string
	PDFPath         string
	CreatedAt       string
	UpdatedAt       string
}

func (j *Job) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID               string `json:"id"`
		UserID           string `json:"userId"`
		UserID2          string `json:"user_id"`
		ToolUsed         string `json:"toolUsed"`
		ToolUsed2        string `json:"tool_used"`
		VideoTitle       string `json:"videoTitle"`
		VideoTitle2      string `json:"video_title"`
		VideoID          string `json:"videoId"`
		VideoID2         string `json:"video_id"`
		VideoUploadDate  string `json:"videoUploadDate"`
		VideoUploadDate2 string `json:"video_upload_date"`
		YoutubeURL       string `json:"youtubeUrl"`
		YoutubeURL2      string `json:"youtube_url"`
		Duration         string `json:"duration"`
		ChannelName      string `json:"channelName"`
		ChannelName2     string `json:"channel_name"`
		ChannelLogo      string `json:"channelLogo"`
		ChannelLogo2     string `json:"channel_logo"`
		Status           string `json:"status"`
		CurrentStep      int    `json:"currentStep"`
		CurrentStep2     int    `json:"current_step"`
		Progress         int    `json:"progress"`
		Steps            []Step `json:"steps"`
		UnsignedPDFPath  string `json:"unsignedPdfPath"`
		UnsignedPDFPath2 string `json:"unsigned_pdf_path"`
		SignedPDFPath    string `json:"signedPdfPath"`
		SignedPDFPath2   string `json:"signed_pdf_path"`
		PDFPath          string `json:"pdf_path"`
		CreatedAt        string `json:"createdAt"`
		CreatedAt2       string `json:"created_at"`
		UpdatedAt        string `json:"updatedAt"`
		UpdatedAt2       string `json:"updated_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	j.ID = raw.ID
	j.UserID = firstNonEmpty(raw.UserID, raw.UserID2)
	j.ToolUsed = firstNonEmpty(raw.ToolUsed, raw.ToolUsed2)
	j.VideoTitle = firstNonEmpty(raw.VideoTitle, raw.VideoTitle2)
	j.VideoID = firstNonEmpty(raw.VideoID, raw.VideoID2)
	j.VideoUploadDate = firstNonEmpty(raw.VideoUploadDate, raw.VideoUploadDate2)
	j.YoutubeURL = firstNonEmpty(raw.YoutubeURL, raw.YoutubeURL2)
	j.Duration = raw.Duration
	j.ChannelName = firstNonEmpty(raw.ChannelName, raw.ChannelName2)
	j.ChannelLogo = firstNonEmpty(raw.ChannelLogo, raw.ChannelLogo2)
	j.Status = raw.Status
	j.CurrentStep = raw.CurrentStep
	if j.CurrentStep == 0 {
		j.CurrentStep = raw.CurrentStep2
	}
	j.Progress = raw.Progress
	j.Steps = raw.Steps
	j.UnsignedPDFPath = firstNonEmpty(raw.UnsignedPDFPath, raw.UnsignedPDFPath2)
	j.SignedPDFPath = firstNonEmpty(raw.SignedPDFPath, raw.SignedPDFPath2)
	j.PDFPath = raw.PDFPath
	j.CreatedAt = firstNonEmpty(raw.CreatedAt, raw.CreatedAt2)
	j.UpdatedAt = firstNonEmpty(raw.UpdatedAt, raw.UpdatedAt2)
	return nil
}

// StepByNumber returns the step with the given 1-based number, or nil.
func (j *Job) StepByNumber(n int) *Step {
	for i := range j.Steps {
		if j.Steps[i].StepNumber == n {
			return &j.Steps[i]
		}
	}
	return nil
}

// VideoInfo is the metadata returned by fetch-video.
type VideoInfo struct {
	Title       string `json:"title"`
	UploadDate  string `json:"uploadDate"`
	UploadTime  string `json:"uploadTime"`
	Duration    string `json:"duration"`
	VideoID     string `json:"videoId"`
	ChannelName string `json:"channelName"`
	ChannelLogo string `json:"channelLogo"`
}

// SavedRationale is one saved report record.
type SavedRationale struct {
	ID               int64  `json:"id"`
	JobID            string `json:"job_id"`
	ToolUsed         string `json:"tool_used"`
	VideoTitle       string `json:"video_title"`
	VideoUploadDate  string `json:"video_upload_date"`
	YoutubeURL       string `json:"youtube_url"`
	UnsignedPDFPath  string `json:"unsigned_pdf_path"`
	SignedPDFPath    string `json:"signed_pdf_path"`
	SignedUploadedAt string `json:"signed_uploaded_at"`
	CreatedAt        string `json:"created_at"`
	ChannelName      string `json:"channel_name"`
	ChannelLogoPath  string `json:"channel_logo_path"`
}

// Channel describes a tracked YouTube channel.
type Channel struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	LogoPath    string `json:"logoPath"`
	ChannelLink string `json:"channelLink"`
	AddedAt     string `json:"addedAt"`
}

// APIKey is one provider credential record.
type APIKey struct {
	ID        int64  `json:"id"`
	Provider  string `json:"provider"`
	Value     string `json:"value"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// CookiesStatus reports the stored YouTube cookies file the download steps
// use for age-restricted videos.
type CookiesStatus struct {
	Exists    bool   `json:"exists"`
	FileSize  int64  `json:"file_size"`
	UpdatedAt string `json:"updated_at"`
}

// UploadedFile describes a shared pipeline asset (master file, company logo,
// custom font).
type UploadedFile struct {
	ID         int64  `json:"id"`
	FileType   string `json:"file_type"`
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	FileSize   string `json:"file_size"`
	UploadedAt string `json:"uploaded_at"`
	UpdatedAt  string `json:"updated_at"`
}

// PDFTemplate holds the report boilerplate texts.
type PDFTemplate struct {
	ID                  int64  `json:"id"`
	CompanyName         string `json:"company_name"`
	RegistrationDetails string `json:"registration_details"`
	DisclaimerText      string `json:"disclaimer_text"`
	DisclosureText      string `json:"disclosure_text"`
	CompanyData         string `json:"company_data"`
	UpdatedAt           string `json:"updated_at"`
}

// ActivityLog is one audit trail entry.
type ActivityLog struct {
	ID         int64  `json:"id"`
	UserID     string `json:"user_id"`
	JobID      string `json:"job_id"`
	Action     string `json:"action"`
	ToolUsed   string `json:"tool_used"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	AvatarPath string `json:"avatar_path"`
}

// DashboardStats summarizes job counts for the dashboard header.
type DashboardStats struct {
	TotalJobs       int    `json:"total_jobs"`
	CompletedJobs   int    `json:"completed_jobs"`
	FailedJobs      int    `json:"failed_jobs"`
	RunningJobs     int    `json:"running_jobs"`
	PendingJobs     int    `json:"pending_jobs"`
	TotalChange     string `json:"total_change"`
	CompletedChange string `json:"completed_change"`
	FailedChange    string `json:"failed_change"`
}

// DashboardJob is one row of the dashboard job listing. The backend maps
// processing to running before it reaches this type.
type DashboardJob struct {
	ID          string `json:"id"`
	YoutubeURL  string `json:"youtube_url"`
	Status      string `json:"status"`
	Title       string `json:"title"`
	ChannelName string `json:"channel_name"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	Progress    int    `json:"progress"`
}

// DashboardPage is the paginated dashboard payload.
type DashboardPage struct {
	Stats  DashboardStats `json:"stats"`
	Jobs   []DashboardJob `json:"jobs"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
