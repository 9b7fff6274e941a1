package wizard

import "github.com/noah-isme/sis-enrollment-api/internal/models"

// Event is a wizard input. Concrete events form a closed set.
type Event interface{ isEvent() }

// AcknowledgeCompliance records that the student accepted the compliance
// notice and may begin selecting.
type AcknowledgeCompliance struct{}

// SelectLevel picks the schooling level and resets downstream selections.
type SelectLevel struct {
	Level models.Level
}

// SelectGrade picks a high-school grade.
type SelectGrade struct {
	Grade models.GradeLevel
}

// ConfirmIrregular accepts the irregular-standing prompt for a staged grade.
type ConfirmIrregular struct{}

// CancelIrregular dismisses the irregular-standing prompt.
type CancelIrregular struct{}

// SelectCourse picks a college course.
type SelectCourse struct {
	Course models.Course
}

// ConfirmCourseChange commits a staged course switch. The resulting irregular
// standing holds for the rest of the session.
type ConfirmCourseChange struct{}

// CancelCourseChange discards a staged course switch.
type CancelCourseChange struct{}

// SelectYear picks the college year level.
type SelectYear struct {
	Year int
}

// SelectSemester picks a semester and requests an availability check.
type SelectSemester struct {
	Semester models.Semester
}

// AvailabilityChecked feeds the availability collaborator's verdict back into
// the machine.
type AvailabilityChecked struct {
	Valid   bool
	Message string
}

// SetPersonalInfo stores the student's personal data.
type SetPersonalInfo struct {
	Info models.PersonalInfo
}

// StartReEnroll seeds the wizard from the previous enrollment record.
type StartReEnroll struct{}

// Submit requests final submission with the student's document status.
type Submit struct {
	Documents models.DocumentStatus
}

// SubmitResolved feeds the submission outcome back into the machine.
type SubmitResolved struct {
	OK bool
}

// GoBack steps backwards through the flow.
type GoBack struct{}

// Reset discards the session.
type Reset struct{}

func (AcknowledgeCompliance) isEvent() {}
func (SelectLevel) isEvent()           {}
func (SelectGrade) isEvent()           {}
func (ConfirmIrregular) isEvent()      {}
func (CancelIrregular) isEvent()       {}
func (SelectCourse) isEvent()          {}
func (ConfirmCourseChange) isEvent()   {}
func (CancelCourseChange) isEvent()    {}
func (SelectYear) isEvent()            {}
func (SelectSemester) isEvent()        {}
func (AvailabilityChecked) isEvent()   {}
func (SetPersonalInfo) isEvent()       {}
func (StartReEnroll) isEvent()         {}
func (Submit) isEvent()                {}
func (SubmitResolved) isEvent()        {}
func (GoBack) isEvent()                {}
func (Reset) isEvent()                 {}

// Effect is a side effect the caller must execute after a transition.
type Effect interface{ isEffect() }

// CheckAvailability asks the caller to verify the semester is open for the
// student, then dispatch AvailabilityChecked.
type CheckAvailability struct {
	Semester models.Semester
}

// LoadCourses asks the caller to fetch the course catalog and re-dispatch the
// originating event with Courses populated in the Context.
type LoadCourses struct{}

// SubmitEnrollment asks the caller to persist the enrollment using the
// reconciled student type, then dispatch SubmitResolved.
type SubmitEnrollment struct {
	StudentType models.StudentType
	Documents   models.DocumentStatus
}

// PublishSubmitted asks the caller to announce a successful submission.
type PublishSubmitted struct{}

// ApplyTransitionDelay asks the presentation layer to pause before showing
// the next step, giving the strand-change jump visible feedback.
type ApplyTransitionDelay struct{}

func (CheckAvailability) isEffect()    {}
func (LoadCourses) isEffect()          {}
func (SubmitEnrollment) isEffect()     {}
func (PublishSubmitted) isEffect()     {}
func (ApplyTransitionDelay) isEffect() {}
