package llm

import "fmt"

// Single source of truth for the intro-generation prompt. Both the free-form
// endpoint and the Pro pipeline build their messages here so tone and length
// constraints cannot drift apart.
const (
	generateSystemPrompt = "You are a professional resume strategist who helps job seekers craft compelling, brief, and highly tailored 2–3 line introductions for their resumes. Keep it concise, focused on alignment with the job, and avoid listing all skills — only highlight the ones that matter for the role."

	locateSystemPrompt = "You are an expert resume parser. Extract the 2–4 line introductory summary from this resume."
)

const generateUserPrompt = `Generate a 2–3 line resume introduction tailored to the following job description and candidate's relevant skills.

Job Description:
%s

Candidate's Skills and Projects:
%s

Only output a 2–3 line professional resume introduction. Prioritize conciseness, avoid filler words like 'enthusiastic' or 'passionate'. Adjust the tone to match the voice of the job description — whether formal, innovative, or technical. Only mention projects or technologies if they directly reinforce the candidate's fit for this specific role.`

// GenerateIntroMessages builds the two-message prompt for a new introduction.
// The two free-text inputs are embedded verbatim.
func GenerateIntroMessages(jobDescription, skillsAndProjects string) []Message {
	return []Message{
		{Role: "system", Content: generateSystemPrompt},
		{Role: "user", Content: fmt.Sprintf(generateUserPrompt, jobDescription, skillsAndProjects)},
	}
}

// LocateIntroMessages builds the prompt that asks the model to find the
// existing introduction in the full resume text. Best-effort: the answer is
// whatever the model judges to be the intro.
func LocateIntroMessages(fullText string) []Message {
	return []Message{
		{Role: "system", Content: locateSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("Full Resume Text:\n%s\n\nExtract only the resume introduction.", fullText)},
	}
}
