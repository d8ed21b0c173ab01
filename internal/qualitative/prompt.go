package qualitative

import "fmt"

// Prompt is one structured-output request to a model.
type Prompt struct {
	System string
	User   string
	Schema *responseSchema
}

const systemPrompt = `You review applications for Business Finland innovation funding.
Judge only the text you are given. Answer with a single JSON object and nothing else.`

func projectPrompt(description string) Prompt {
	return Prompt{
		System: systemPrompt,
		User: fmt.Sprintf(`Review the following business idea from a novelty and "strategic fit" perspective.
Strategic fit means how well the project aligns with Business Finland's goals and priorities.
Here is the business idea: %s`, description),
		Schema: projectSchema,
	}
}

func rolePrompt(projectDescription, roleDescription string) Prompt {
	return Prompt{
		System: systemPrompt,
		User: fmt.Sprintf(`A company is applying as a member of a consortium project.
Assess how relevant the company's role is to the project and how clearly the role is described.

Project description: %s

Company role description: %s`, projectDescription, roleDescription),
		Schema: roleSchema,
	}
}
