// Package profile holds the static facts the chat assistant answers from.
package profile

// Topic names a canned answer.
type Topic string

const (
	TopicGreeting       Topic = "greeting"
	TopicSkills         Topic = "skills"
	TopicExperience     Topic = "experience"
	TopicProjects       Topic = "projects"
	TopicEducation      Topic = "education"
	TopicContact        Topic = "contact"
	TopicCertifications Topic = "certifications"
	TopicAI             Topic = "ai"
)

// Answers maps each topic to its markdown reply.
var Answers = map[Topic]string{
	TopicGreeting:       "Hello! I'm Alexander's AI assistant. I can help you learn about his skills, experience, projects, and background. What would you like to know?",
	TopicSkills:         "Alexander is skilled in **JavaScript**, **TypeScript**, **ReactJS**, **NodeJS**, **Python**, **PostgreSQL**, and **AI model evaluation**. He's also experienced with prompt engineering and data annotation pipelines.",
	TopicExperience:     "Alexander has worked as an **AI Data Annotator & Model Evaluator** (2025-Present), **Admin & Web Developer** (2023-2024), and **Mortgage Associate** (2019-2022).",
	TopicProjects:       "Alexander has built several projects including **ArtsSpace**, **Boolebots**, **Muttly**, and **Quizzical**. You can see them in his portfolio!",
	TopicEducation:      "Alexander has a **Bachelor of Science in Software Engineering** from Western Governors University (2025), a **Web Development Diploma** from Lighthouse Labs, and a **Bachelor of Business Administration** from NAIT (2019).",
	TopicContact:        "You can reach Alexander through the contact form on this website or connect with him on LinkedIn.",
	TopicCertifications: "Alexander holds **AWS Cloud Practitioner** (2024) and **ITIL v4 Foundations** (2024) certifications.",
	TopicAI:             "Alexander specializes in AI model evaluation, prompt engineering, and data annotation pipelines. He works on improving AI systems through systematic evaluation and quality assurance.",
}

// Answer returns the canned reply for a topic.
func Answer(t Topic) (string, bool) {
	a, ok := Answers[t]
	return a, ok
}

// Fallback is sent when neither a rule nor the model produced a reply.
const Fallback = "I'm here to help with Alexander's portfolio. You can ask about his skills, experience, projects, education, or how to contact him. What would you like to know?"

// Apology is the reply the chat endpoint returns on an internal error.
const Apology = "Something went wrong. Please try again."

// ResumeContext is prepended to every model prompt and stored with each
// saved session.
const ResumeContext = `[CONVERSATION INSTRUCTIONS]
You are Alexander's AI assistant. Answer questions about his portfolio, skills, experience, and background. Keep responses conversational, helpful, and accurate. Use markdown formatting for better readability.

[RESUME INFORMATION]
- Name: Alexander DaCosta
- Specialization: Full-stack Developer and AI Data Annotator
- Current Role: AI Data Annotator & Model Evaluator at Data Annotation Tech (Contract)
- Education: Bachelor of Science in Software Engineering from Western Governors University (2025)
- Key Skills: JavaScript, TypeScript, ReactJS, NodeJS, Python, PostgreSQL, Supabase, AI model evaluation, prompt engineering
- Experience:
  * AI Data Annotator & Model Evaluator (2025-Present) - Evaluate and improve AI model outputs using detailed rubrics and prompt engineering
  * Admin & Web Developer at Infill Development in Edmonton Association (2023-2024) - Developed web pages and improved CRM workflows
  * Mortgage Associate at Dominion Mortgage Pros (2019-2022) - Managed 150+ clients and customized ZOHO CRM
- Certifications: AWS Cloud Practitioner (2024), ITIL v4 Foundations (2024)
- Projects: ArtsSpace, Boolebots, Muttly, Quizzical (see portfolio for details)
- Passion: Building scalable applications and improving AI systems with a systematic, user-focused approach

[RESPONSE GUIDELINES]
- Be conversational and friendly
- Use markdown formatting for emphasis and structure
- Provide specific examples when relevant
- Keep responses concise but informative
- If unsure about something, suggest asking Alexander directly via the contact form`

// Instructions follows the resume block in the model prompt.
const Instructions = `[INSTRUCTIONS]
You are Alexander's AI assistant. Answer questions about his portfolio, skills, experience, and background. Keep responses conversational, helpful, and accurate. Use markdown formatting for better readability.`
