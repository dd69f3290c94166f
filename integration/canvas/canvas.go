package canvas

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	C "taskmate/config"
	"taskmate/model/model"
)

// Canvas LMS REST API. https://canvas.instructure.com/doc/api/
const (
	coursesRoute           = "%s/api/v1/courses?enrollment_state=active&per_page=100"
	courseAssignmentsRoute = "%s/api/v1/courses/%d/assignments?include[]=submission&per_page=100"
	selfRoute              = "%s/api/v1/users/self"
)

type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Submission struct {
	WorkflowState string `json:"workflow_state"`
}

type Assignment struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	DueAt           string   `json:"due_at"`
	UpdatedAt       string   `json:"updated_at"`
	CourseID        int64    `json:"course_id"`
	HTMLURL         string   `json:"html_url"`
	SubmissionTypes []string `json:"submission_types"`
	Published       bool     `json:"published"`
	Submission      *Submission `json:"submission"`
}

// Submission modalities with an online/electronic form. Anything else
// (none, on_paper, external_tool, attendance) is not actionable inside
// the app.
var onlineSubmissionTypes = map[string]bool{
	"online_upload":     true,
	"online_text_entry": true,
	"online_url":        true,
	"online_quiz":       true,
	"media_recording":   true,
}

const submissionStateUnsubmitted = "unsubmitted"

type Connector struct{}

func NewConnector() *Connector {
	return &Connector{}
}

func canvasGetRequest(url, apiToken string) (*http.Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+apiToken)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: C.GetPollTimeout()}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "canvas get request failed")
	}

	return resp, nil
}

// classifyTerminalStatus maps a response status to a terminal sync
// error. Non-terminal statuses return nil so per course failures can be
// skipped without aborting the poll.
func classifyTerminalStatus(statusCode int) error {
	if statusCode == http.StatusUnauthorized {
		return model.ErrInvalidCredentials
	}
	if statusCode == http.StatusTooManyRequests {
		return model.ErrRateLimit
	}
	if statusCode >= http.StatusInternalServerError {
		return model.ErrNetwork
	}

	return nil
}

// ValidateCredentials checks the token against the user's own profile
// route before anything is persisted for the account.
func (connector *Connector) ValidateCredentials(details *model.ConnectionDetails) error {
	resp, err := canvasGetRequest(fmt.Sprintf(selfRoute, details.BaseURL), details.APIToken)
	if err != nil {
		log.WithError(err).Error("Failed to reach canvas on credential validation.")
		return model.ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return model.ErrNetwork
	}

	if resp.StatusCode != http.StatusOK {
		return model.ErrInvalidCredentials
	}

	return nil
}

func (connector *Connector) fetchCourses(details *model.ConnectionDetails) ([]Course, error) {
	resp, err := canvasGetRequest(fmt.Sprintf(coursesRoute, details.BaseURL), details.APIToken)
	if err != nil {
		log.WithError(err).Error("Failed to fetch canvas courses.")
		return nil, model.ErrNetwork
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if terminalErr := classifyTerminalStatus(resp.StatusCode); terminalErr != nil {
			return nil, terminalErr
		}

		// Unrecognized failure on the course list leaves nothing to poll.
		log.WithField("status", resp.StatusCode).Error("Unexpected status on canvas course fetch.")
		return nil, model.ErrNetwork
	}

	var courses []Course
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		log.WithError(err).Error("Failed to decode canvas courses response.")
		return nil, model.ErrNetwork
	}

	return courses, nil
}

// PollAssignments fetches active courses and their assignments, keeping
// only actionable outstanding work: published, electronically
// submittable, due dated and not yet submitted. A failure on a single
// course's fetch is skipped; a terminal failure (auth, throttle,
// platform down) aborts the whole poll immediately.
func (connector *Connector) PollAssignments(details *model.ConnectionDetails) ([]model.RawExternalAssignment, error) {
	courses, err := connector.fetchCourses(details)
	if err != nil {
		return nil, err
	}

	rawAssignments := make([]model.RawExternalAssignment, 0)
	for i := range courses {
		logCtx := log.WithField("course_id", courses[i].ID)

		url := fmt.Sprintf(courseAssignmentsRoute, details.BaseURL, courses[i].ID)
		resp, err := canvasGetRequest(url, details.APIToken)
		if err != nil {
			logCtx.WithError(err).Error("Failed to fetch canvas assignments.")
			return nil, model.ErrNetwork
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if terminalErr := classifyTerminalStatus(resp.StatusCode); terminalErr != nil {
				return nil, terminalErr
			}

			logCtx.WithField("status", resp.StatusCode).
				Warn("Skipping course on unexpected assignment fetch status.")
			continue
		}

		var assignments []Assignment
		err = json.NewDecoder(resp.Body).Decode(&assignments)
		resp.Body.Close()
		if err != nil {
			logCtx.WithError(err).Warn("Skipping course on malformed assignments response.")
			continue
		}

		for j := range assignments {
			if !isActionableAssignment(&assignments[j]) {
				continue
			}

			raw, err := normalizeAssignment(&assignments[j])
			if err != nil {
				logCtx.WithField("assignment_id", assignments[j].ID).WithError(err).
					Warn("Skipping assignment on normalization failure.")
				continue
			}
			rawAssignments = append(rawAssignments, *raw)
		}
	}

	return rawAssignments, nil
}

func isActionableAssignment(assignment *Assignment) bool {
	if !assignment.Published {
		return false
	}

	hasOnlineSubmission := false
	for i := range assignment.SubmissionTypes {
		if onlineSubmissionTypes[assignment.SubmissionTypes[i]] {
			hasOnlineSubmission = true
			break
		}
	}
	if !hasOnlineSubmission {
		return false
	}

	if assignment.DueAt == "" {
		return false
	}

	// Submitted work goes to Canvas's "Past" bucket; only outstanding
	// assignments are relevant.
	if assignment.Submission != nil && assignment.Submission.WorkflowState != submissionStateUnsubmitted {
		return false
	}

	return true
}

func normalizeAssignment(assignment *Assignment) (*model.RawExternalAssignment, error) {
	updatedAt, err := time.Parse(time.RFC3339, assignment.UpdatedAt)
	if err != nil {
		return nil, errors.Wrap(err, "invalid updated_at on canvas assignment")
	}

	details := model.ExternalAssignmentDetails{
		Name: assignment.Name,
		// The assignment URL, not the prose body. Links the task back
		// to the platform.
		Description: assignment.HTMLURL,
	}

	if assignment.DueAt != "" {
		dueAt, err := time.Parse(time.RFC3339, assignment.DueAt)
		if err != nil {
			return nil, errors.Wrap(err, "invalid due_at on canvas assignment")
		}
		dueDate := dueAt.UnixNano() / int64(time.Millisecond)
		details.DueDate = &dueDate
	}

	return &model.RawExternalAssignment{
		ExternalID:                    strconv.FormatInt(assignment.ID, 10),
		Details:                       details,
		ExternalModificationTimestamp: updatedAt.UnixNano() / int64(time.Millisecond),
	}, nil
}
