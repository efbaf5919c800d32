package domain

// ContentType identifies the kind of teaching artifact.
type ContentType string

const (
	ContentTypeCurriculum ContentType = "CURRICULUM"
	ContentTypeSyllabus   ContentType = "SYLLABUS"
	ContentTypeExercise   ContentType = "EXERCISE"
	ContentTypeQuestion   ContentType = "ASSESSMENT_QUESTION"
)

func (t ContentType) String() string { return string(t) }

func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypeCurriculum, ContentTypeSyllabus, ContentTypeExercise, ContentTypeQuestion:
		return true
	}
	return false
}

// RequestStatus is the review state of a submitted content version.
type RequestStatus string

const (
	StatusPending RequestStatus = "PENDING"
	StatusApprove RequestStatus = "APPROVE"
	StatusReject  RequestStatus = "REJECT"
)

func (s RequestStatus) String() string { return string(s) }

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApprove, StatusReject:
		return true
	}
	return false
}

// Role is a closed set of actor roles. Authorization decisions compare
// against this enum, never against raw claim strings.
type Role string

const (
	RoleTutor   Role = "TUTOR"
	RoleStaff   Role = "STAFF"
	RoleManager Role = "MANAGER"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleTutor, RoleStaff, RoleManager:
		return true
	}
	return false
}

// EventKind classifies a notification event.
type EventKind string

const (
	EventSubmitted EventKind = "SUBMITTED"
	EventApproved  EventKind = "APPROVED"
	EventRejected  EventKind = "REJECTED"
	EventUpdated   EventKind = "UPDATED"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventSubmitted, EventApproved, EventRejected, EventUpdated:
		return true
	}
	return false
}

// ReviewDecision is a reviewer's verdict on a pending version.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

func (d ReviewDecision) String() string { return string(d) }

func (d ReviewDecision) IsValid() bool {
	switch d {
	case DecisionApprove, DecisionReject:
		return true
	}
	return false
}
