package api

// Common request/response structures

// LoginRequest defines the payload for the rater login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for the login endpoint.
type AuthResponse struct {
	// RaterID is the unique identifier for the authenticated rater
	RaterID int64 `json:"rater_id"`

	// Token is the JWT token used for API authorization
	Token string `json:"token"`

	// ShowHelp is true on the rater's first login; the UI opens the help
	// screen once and the flag is cleared server-side.
	ShowHelp bool `json:"show_help"`
}

// ProgressResponse carries a task's progress counters and display label.
type ProgressResponse struct {
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
	Percent   int    `json:"percent"`
	Label     string `json:"label"`
}

// EvaluationTaskResponse is one evaluation task on the overview page.
type EvaluationTaskResponse struct {
	ID       int64            `json:"id"`
	Overlays []int64          `json:"overlays"`
	Progress ProgressResponse `json:"progress"`
}

// ComparisonTaskResponse is one comparison task on the overview page.
type ComparisonTaskResponse struct {
	ID       int64            `json:"id"`
	OverlayA int64            `json:"overlay_a"`
	OverlayB int64            `json:"overlay_b"`
	Progress ProgressResponse `json:"progress"`
}

// ScoreOptionResponse is one configured score button.
type ScoreOptionResponse struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	Color       string `json:"color"`
	Description string `json:"description,omitempty"`
	Keys        []int  `json:"keys,omitempty"`
}

// ContactResponse is the study contact shown by the UI.
type ContactResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
}

// TaskListResponse is the full task overview.
type TaskListResponse struct {
	Evaluations  []EvaluationTaskResponse `json:"evaluations"`
	Comparisons  []ComparisonTaskResponse `json:"comparisons"`
	ScoreOptions []ScoreOptionResponse    `json:"score_options"`
	Contact      *ContactResponse         `json:"contact,omitempty"`
}

// ScreenshotResponse is one image the UI should display.
type ScreenshotResponse struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
}

// EvaluationItemResponse is the next evaluation item to display.
type EvaluationItemResponse struct {
	Screenshot ScreenshotResponse  `json:"screenshot"`
	OverlayID  int64               `json:"overlay_id"`
	Bounds     *ScreenshotResponse `json:"bounds,omitempty"`
	Progress   ProgressResponse    `json:"progress"`
}

// ComparisonSlotResponse is one choice slot of a comparison item.
type ComparisonSlotResponse struct {
	Screenshot ScreenshotResponse `json:"screenshot"`
	Color      string             `json:"color"`
}

// ComparisonItemResponse is the next comparison item to display. Slots are
// already bound: the UI renders them in order and reports the chosen slot
// index back, never an overlay id.
type ComparisonItemResponse struct {
	Slots    [2]ComparisonSlotResponse `json:"slots"`
	Bounds   ScreenshotResponse        `json:"bounds"`
	Progress ProgressResponse          `json:"progress"`
}

// ScoreRequest defines the payload for recording an evaluation score.
// A zero value discards the item's whole region.
type ScoreRequest struct {
	ScreenshotID int64 `json:"screenshot_id" validate:"required"`
	Value        int   `json:"value"`
}

// ChoiceRequest defines the payload for recording a comparison choice.
// Slot 0 and 1 are the bound slots; 2 means "neither".
type ChoiceRequest struct {
	Slot int `json:"slot" validate:"min=0,max=2"`
}

// DecisionResponse returns the refreshed progress after a decision.
type DecisionResponse struct {
	Progress ProgressResponse `json:"progress"`
}

// UndoResponse reports the score that was undone.
type UndoResponse struct {
	ScreenshotID int64 `json:"screenshot_id"`
	Value        int   `json:"value"`
}

// SwitchDatabaseRequest defines the payload for switching study files.
type SwitchDatabaseRequest struct {
	Path string `json:"path" validate:"required"`
}

// MetaResponse describes the open database.
type MetaResponse struct {
	Path      string `json:"path"`
	ImageBase string `json:"image_base"`
}
