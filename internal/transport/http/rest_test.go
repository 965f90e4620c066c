package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestCreateQuizRejectsEmptyDocuments(t *testing.T) {
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/quizzes", map[string]string{
		"title":         "Broken",
		"questionsText": "no question lines here",
		"answersText":   testAnswers,
	}, nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}

	listResp, err := http.Get(server.URL + "/api/quizzes")
	if err != nil {
		t.Fatalf("list quizzes: %v", err)
	}
	defer listResp.Body.Close()
	var summaries []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&summaries); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(summaries) != 0 {
		t.Fatalf("expected nothing stored after rejected upload, got %d", len(summaries))
	}
}

func TestGetQuizStripsAnswerKeys(t *testing.T) {
	server := newTestServer(t)
	quizID := createTestQuiz(t, server)

	resp, err := http.Get(server.URL + "/api/quizzes/" + quizID)
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var quiz struct {
		Questions []map[string]any `json:"questions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&quiz); err != nil {
		t.Fatalf("decode quiz: %v", err)
	}
	if len(quiz.Questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(quiz.Questions))
	}
	for _, q := range quiz.Questions {
		if _, ok := q["correctKeys"]; ok {
			t.Fatalf("expected answer keys stripped, question %v still has them", q["id"])
		}
		if _, ok := q["explanation"]; ok {
			t.Fatalf("expected explanations stripped, question %v still has one", q["id"])
		}
	}
}

func TestUnknownQuizReturns404(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/quizzes/missing")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestRESTToggleAndSummary(t *testing.T) {
	server := newTestServer(t)
	quizID := createTestQuiz(t, server)
	sessionID := startTestSession(t, server, quizID)

	var toggled struct {
		Feedback struct {
			Status string `json:"status"`
		} `json:"feedback"`
		Progress struct {
			Answered int `json:"answered"`
			Percent  int `json:"percent"`
		} `json:"progress"`
	}
	resp := postJSON(t, server.URL+"/api/sessions/"+sessionID+"/toggle",
		map[string]string{"questionId": "1", "key": "a"}, &toggled)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if toggled.Feedback.Status != "incorrect" {
		t.Fatalf("expected incorrect pick to grade incorrect, got %s", toggled.Feedback.Status)
	}
	if toggled.Progress.Answered != 1 || toggled.Progress.Percent != 0 {
		t.Fatalf("expected answered=1 percent=0, got %+v", toggled.Progress)
	}

	summaryResp, err := http.Get(server.URL + "/api/sessions/" + sessionID + "/summary")
	if err != nil {
		t.Fatalf("get summary: %v", err)
	}
	defer summaryResp.Body.Close()
	var summary struct {
		Incorrect []struct {
			ID      string   `json:"id"`
			Correct []string `json:"correct"`
		} `json:"incorrect"`
	}
	if err := json.NewDecoder(summaryResp.Body).Decode(&summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if len(summary.Incorrect) != 1 || summary.Incorrect[0].ID != "1" {
		t.Fatalf("expected question 1 in incorrect review, got %+v", summary.Incorrect)
	}
	if len(summary.Incorrect[0].Correct) != 1 || summary.Incorrect[0].Correct[0] != "B" {
		t.Fatalf("expected correct keys revealed in review, got %v", summary.Incorrect[0].Correct)
	}
}

func TestExportDownloadHeaders(t *testing.T) {
	server := newTestServer(t)
	quizID := createTestQuiz(t, server)
	sessionID := startTestSession(t, server, quizID)

	postJSON(t, server.URL+"/api/sessions/"+sessionID+"/toggle",
		map[string]string{"questionId": "1", "key": "A"}, nil)

	resp, err := http.Get(server.URL + "/api/sessions/" + sessionID + "/export")
	if err != nil {
		t.Fatalf("get export: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	disposition := resp.Header.Get("Content-Disposition")
	if !strings.Contains(disposition, "incorrect_answers_") || !strings.Contains(disposition, ".json") {
		t.Fatalf("expected download filename header, got %q", disposition)
	}

	var export struct {
		IncorrectQuestions []struct {
			ID string `json:"id"`
		} `json:"incorrectQuestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&export); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if len(export.IncorrectQuestions) != 1 {
		t.Fatalf("expected 1 incorrect question in export, got %d", len(export.IncorrectQuestions))
	}
}

func TestResetAndEndSession(t *testing.T) {
	server := newTestServer(t)
	quizID := createTestQuiz(t, server)
	sessionID := startTestSession(t, server, quizID)

	postJSON(t, server.URL+"/api/sessions/"+sessionID+"/toggle",
		map[string]string{"questionId": "1", "key": "B"}, nil)

	var view struct {
		Progress struct {
			Answered int `json:"answered"`
		} `json:"progress"`
	}
	resp := postJSON(t, server.URL+"/api/sessions/"+sessionID+"/reset", map[string]string{}, &view)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if view.Progress.Answered != 0 {
		t.Fatalf("expected reset to clear progress, got answered=%d", view.Progress.Answered)
	}

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/sessions/"+sessionID, nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	deleteResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete session: %v", err)
	}
	deleteResp.Body.Close()
	if deleteResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", deleteResp.StatusCode)
	}

	stateResp, err := http.Get(server.URL + "/api/sessions/" + sessionID)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	stateResp.Body.Close()
	if stateResp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", stateResp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
