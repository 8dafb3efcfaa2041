package domain

// ROIKey identifies a region of interest: the spatial locus shared by all
// screenshots rendered for it. Screenshots carry the full tuple, and every
// "same ROI" join in the engine matches on all five fields.
type ROIKey struct {
	ROIID   int64  `json:"roi_id"`
	CenterI int64  `json:"center_i"`
	CenterJ int64  `json:"center_j"`
	CenterK int64  `json:"center_k"`
	ViewID  string `json:"view_id"`
}

// Screenshot is a rendered image file tied to exactly one ROI.
type Screenshot struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	ROI      ROIKey `json:"roi"`
}

/// EvaluationItem is the unit of rating for evaluation tasks: a single
// per-overlay screenshot shown next to its ROI-bounds context image.
type EvaluationItem struct {
	Screenshot Screenshot `json:"screenshot"`
	OverlayID  int64      `json:"overlay_id"`
	Bounds     Screenshot `json:"bounds"`
}

// ComparisonSide is one of the two per-overlay screenshots of a comparison
// item, together with the color its overlay was rendered in.
type ComparisonSide struct {
	Screenshot Screenshot `json:"screenshot"`
	OverlayID  int64      `json:"overlay_id"`
	Color      string     `json:"color"`
}

/// ComparisonItem is the unit of rating for comparison tasks: the two
// per-overlay screenshots sharing one ROI, plus the ROI-bounds screenshot
// for spatial context. The identity of the item is the ROI; the choice row
// is recorded against the bounds screenshot's id.
type ComparisonItem struct {
	ROI    ROIKey           `json:"roi"`
	Sides  [2]ComparisonSide `json:"sides"`
	Bounds Screenshot       `json:"bounds"`
}

// Validate checks the structural invariants a comparison item must satisfy
// before it can be bound to UI slots.
func (c *ComparisonItem) Validate() error {
	if c.Bounds.ID == 0 {
		return ErrMissingBoundsImage
	}
	if c.Sides[0].OverlayID == c.Sides[1].OverlayID {
		return ErrIdenticalOverlays
	}
	return nil
}
