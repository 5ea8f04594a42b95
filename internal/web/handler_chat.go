package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/vbonduro/plantcare/internal/ai"
	"github.com/vbonduro/plantcare/internal/chat"
)

func (s *Server) chatData(r *http.Request, id string, ws *workspace) map[string]any {
	chatErr := ws.lastChatErr()
	credential := s.workspaces.credential(ws)
	data := s.pageData(r, id, "chatbot")
	data["Messages"] = ws.chat.Messages()
	data["Thinking"] = ws.chat.Thinking()
	data["QuickQuestions"] = nil
	if ws.chat.Fresh() {
		data["QuickQuestions"] = chat.QuickQuestions
	}
	data["Error"] = ai.UserMessage(ai.CapabilityChat, chatErr)
	data["ShowCredential"] = credential == "" || ai.NeedsCredential(chatErr) || r.URL.Query().Get("key") == "change"
	data["HasCredential"] = credential != ""
	data["Return"] = "/chatbot"
	return data
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)
	if err := s.renderPage(w, http.StatusOK, s.chatData(r, id, ws),
		"pages/chatbot.html", "partials/chat_panel.html", "partials/credential_form.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	id, ws := s.workspace(w, r)

	ex, err := ws.chat.SendUserText(context.WithoutCancel(r.Context()), s.workspaces.credential(ws), r.FormValue("message"))
	switch {
	case errors.Is(err, ai.ErrEmptyInput), errors.Is(err, chat.ErrBusy):
		// Nothing was appended; the panel is re-rendered unchanged.
	case err != nil:
		http.Error(w, "failed to send message", http.StatusInternalServerError)
		s.logger.Error("send message failed", "error", err)
		return
	default:
		ws.setChatErr(ex.Err)
	}

	if !isHTMX(r) {
		http.Redirect(w, r, "/chatbot", http.StatusSeeOther)
		return
	}
	if err := s.renderPartial(w, "partials/chat_panel.html", s.chatData(r, id, ws)); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}

// credentialReturns lists the pages the credential form may send the user
// back to.
var credentialReturns = map[string]bool{
	"/chatbot":   true,
	"/detection": true,
}

func (s *Server) handleSetCredential(w http.ResponseWriter, r *http.Request) {
	_, ws := s.workspace(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	ws.setCredential(r.PostFormValue("credential"))
	ws.setChatErr(nil)
	s.detection.ClearCredentialError(ws.detection)

	target := r.PostFormValue("return")
	if !credentialReturns[target] {
		target = "/chatbot"
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
