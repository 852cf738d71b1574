package core

import (
	"fmt"
	"strconv"
)

// SystemPrompt frames every deep analysis request sent to the reasoning
// service.
const SystemPrompt = "You are a cybersecurity expert specializing in phishing detection and email security."

// analysisPromptFormat is the fixed analysis prompt. It embeds the full email
// text, the categorical label from the prior verdict and both confidence
// percentages, and requests four bounded sections. The wording is part of the
// service contract; tests assert its structure.
const analysisPromptFormat = `You are a cybersecurity expert analyzing an email for phishing indicators.

Email Content:
%s

Our ML Model Prediction:
- Classification: %s
- Confidence: %s%% phishing, %s%% safe

Please provide:
1. A detailed analysis of phishing indicators or safety markers in this email
2. Specific red flags or positive signs you notice
3. Practical recommendations for the user
4. Educational insights about this type of email

Keep your response concise but informative (max 300 words).`

// BuildAnalysisPrompt renders the deterministic analysis prompt for the given
// email text and prior verdict.
func BuildAnalysisPrompt(emailText string, prior *PriorVerdict) string {
	label := "SAFE"
	if prior.IsPhishing {
		label = "PHISHING"
	}

	phishing := strconv.FormatFloat(prior.Confidence.Phishing, 'f', -1, 64)
	safe := strconv.FormatFloat(prior.Confidence.Safe, 'f', -1, 64)

	return fmt.Sprintf(analysisPromptFormat, emailText, label, phishing, safe)
}
