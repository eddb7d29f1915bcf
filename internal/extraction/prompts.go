package extraction

import (
	"fmt"
	"strings"

	"github.com/soubim/decisiond/internal/core/domain"
)

// itemSchema describes the output contract shared by all three prompts.
const itemSchema = `Respond with ONLY a JSON array. Each element is an object with:
- "item_type": one of "decision", "action_item", "topic", "idea", "information"
- "statement": the core assertion, one or two sentences
- "who": the person the statement is attributed to
- "timestamp": position within the source if identifiable, else ""
- "affected_disciplines": array drawn from architecture, structural, mep, electrical, plumbing, landscape, fire_protection, acoustical, sustainability, civil, client, contractor, tenant, engineer, general
- "confidence": your confidence in this item, 0.0 to 1.0
- "source_excerpt": the verbatim fragment the item came from

Kind-specific fields:
- decision: "why" (rationale), "causation" (what prompted it), "impacts" (downstream effects), "consensus" (object mapping participant name to "agree"/"disagree"/"neutral")
- action_item: "owner", "due_date" (ISO date or "")
- topic: "discussion_points"
- idea: "related_topic"
- information: "reference_source"

Return [] if nothing qualifies. No prose, no markdown fence.`

const transcriptPromptTemplate = `You are analysing a meeting transcript for the architecture project "{{project_name}}".

Meeting: {{meeting_title}}
Type: {{meeting_type}}
Date: {{meeting_date}}
Duration: {{duration_minutes}} minutes

Participant roster:
{{participant_roster}}

Extract every decision, action item, discussed topic, proposed idea and notable piece of information from the transcript. Attribute statements to participants from the roster where possible, and infer affected disciplines from the roster's discipline annotations.

` + itemSchema + `

Transcript:
{{transcript_text}}`

const emailPromptTemplate = `You are analysing a project email for the architecture project "{{project_name}}".

Subject: {{email_subject}}
From: {{email_from}}
Date: {{email_date}}

Participant roster:
{{participant_roster}}

Quoted replies have already been removed. Extract every decision, action item, discussed topic, proposed idea and notable piece of information from the new content of this email.

` + itemSchema + `

Email body:
{{email_body}}`

const documentPromptTemplate = `You are analysing a project document for the architecture project "{{project_name}}".

Document: {{document_title}}
File type: {{file_type}}

Participant roster:
{{participant_roster}}

Extract every decision, action item, discussed topic, proposed idea and notable piece of information recorded in the document.

` + itemSchema + `

Document text:
{{document_text}}`

// formatRoster renders the participant list for prompt injection.
func formatRoster(participants []domain.Participant) string {
	if len(participants) == 0 {
		return "No participant roster available."
	}
	lines := make([]string, 0, len(participants))
	for _, p := range participants {
		line := fmt.Sprintf("- %s (%s)", p.Name, p.Discipline)
		if p.Role != "" {
			line += ", " + p.Role
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// buildTranscriptPrompt fills the meeting template from the source.
func buildTranscriptPrompt(src *domain.Source, project *domain.Project, participants []domain.Participant) string {
	meetingType := src.MeetingType
	if meetingType == "" {
		meetingType = "General"
	}
	title := src.Title
	if title == "" {
		title = "Untitled Meeting"
	}
	return strings.NewReplacer(
		"{{project_name}}", project.Name,
		"{{meeting_title}}", title,
		"{{meeting_type}}", meetingType,
		"{{meeting_date}}", src.OccurredAt.Format("2006-01-02"),
		"{{duration_minutes}}", fmt.Sprintf("%d", src.DurationMinutes),
		"{{participant_roster}}", formatRoster(participants),
		"{{transcript_text}}", src.RawContent,
	).Replace(transcriptPromptTemplate)
}

// buildEmailPrompt fills the email template. The body must already have
// quoted replies stripped.
func buildEmailPrompt(src *domain.Source, project *domain.Project, participants []domain.Participant, cleanBody string) string {
	return strings.NewReplacer(
		"{{project_name}}", project.Name,
		"{{email_subject}}", src.Title,
		"{{email_from}}", src.EmailFrom,
		"{{email_date}}", src.OccurredAt.Format("2006-01-02"),
		"{{participant_roster}}", formatRoster(participants),
		"{{email_body}}", cleanBody,
	).Replace(emailPromptTemplate)
}

// buildDocumentPrompt fills the document template. Manual uploads use
// this path as well.
func buildDocumentPrompt(src *domain.Source, project *domain.Project, participants []domain.Participant) string {
	title := src.Title
	if title == "" {
		title = "Untitled Document"
	}
	fileType := src.FileType
	if fileType == "" {
		fileType = "unknown"
	}
	return strings.NewReplacer(
		"{{project_name}}", project.Name,
		"{{document_title}}", title,
		"{{file_type}}", fileType,
		"{{participant_roster}}", formatRoster(participants),
		"{{document_text}}", src.RawContent,
	).Replace(documentPromptTemplate)
}
