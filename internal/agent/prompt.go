package agent

import (
	"fmt"
	"strings"

	openaigo "github.com/openai/openai-go/v3"

	"github.com/yusufkecer/health-agent-backend/internal/domain"
)

const suggestionSystemPrompt = `You are a professional health and nutrition coach.
Respond with a single JSON object using exactly these keys:
  "summary": one paragraph overview,
  "meal_plan": array of strings,
  "calorie_management": array of strings,
  "weight_management": array of strings,
  "hydration": array of strings,
  "lifestyle": array of strings.
Keep every item short and actionable. If no body measurements are provided,
set the lists to practical onboarding tips and use the summary to encourage
the user to record a measurement first.`

const chatSystemPrompt = `You are a personal health assistant chatting with the user about their
body measurements and goals. Answer in plain conversational text.

If, and only if, the user asks you to update their stored data, finish your
reply with a final line of the form:
<CHANGES>{"change_log":[{"field":"<name>","value":"<new value>","reason":"<why>"}]}
Allowed field names: weight_kg, body_fat_percent, bmi, muscle_percent,
water_percent, note, target_weight_kg, calorie_budget_kcal,
dietary_preference, activity_level, sleep_goal_hours, hydration_goal_liters.
Never mention the marker line in the visible reply.`

func suggestionMessages(agentCtx domain.AgentContext) []openaigo.ChatCompletionMessageParamUnion {
	return []openaigo.ChatCompletionMessageParamUnion{
		openaigo.SystemMessage(suggestionSystemPrompt),
		openaigo.UserMessage(contextBlock(agentCtx) + "\nPlease generate my personalized health suggestions."),
	}
}

func chatMessages(req domain.ChatRequest) []openaigo.ChatCompletionMessageParamUnion {
	messages := make([]openaigo.ChatCompletionMessageParamUnion, 0, len(req.Context.History)+3)
	messages = append(messages,
		openaigo.SystemMessage(chatSystemPrompt),
		openaigo.SystemMessage("Current user data:\n"+contextBlock(req.Context)),
	)
	for _, m := range req.Context.History {
		if m.Role == domain.RoleAssistant {
			messages = append(messages, openaigo.AssistantMessage(m.Content))
		} else {
			messages = append(messages, openaigo.UserMessage(m.Content))
		}
	}
	messages = append(messages, openaigo.UserMessage(req.UserInput))
	return messages
}

func contextBlock(agentCtx domain.AgentContext) string {
	var b strings.Builder

	if m := agentCtx.Metric; m != nil {
		b.WriteString("LATEST MEASUREMENT:\n")
		fmt.Fprintf(&b, "- Weight: %.1f kg\n", m.WeightKg)
		fmt.Fprintf(&b, "- Body fat: %.1f%%\n", m.BodyFatPercent)
		fmt.Fprintf(&b, "- BMI: %.1f\n", m.BMI)
		fmt.Fprintf(&b, "- Muscle: %.1f%%\n", m.MusclePercent)
		fmt.Fprintf(&b, "- Water: %.1f%%\n", m.WaterPercent)
		fmt.Fprintf(&b, "- Recorded at: %s\n", m.RecordedAt.Format("2006-01-02 15:04 MST"))
		if m.Note != nil && *m.Note != "" {
			fmt.Fprintf(&b, "- Note: %s\n", *m.Note)
		}
	} else {
		b.WriteString("LATEST MEASUREMENT: none recorded yet\n")
	}

	b.WriteString("GOALS AND PREFERENCES:\n")
	if p := agentCtx.Preference; p != nil {
		writeOptFloat(&b, "Target weight (kg)", p.TargetWeightKg)
		writeOptInt(&b, "Calorie budget (kcal)", p.CalorieBudgetKcal)
		writeOptString(&b, "Dietary preference", p.DietaryPreference)
		writeOptString(&b, "Activity level", p.ActivityLevel)
		writeOptFloat(&b, "Sleep goal (hours)", p.SleepGoalHours)
		writeOptFloat(&b, "Hydration goal (liters)", p.HydrationGoalLiters)
	} else {
		b.WriteString("- not set\n")
	}

	return b.String()
}

func writeOptFloat(b *strings.Builder, label string, v *float64) {
	if v != nil {
		fmt.Fprintf(b, "- %s: %.1f\n", label, *v)
	}
}

func writeOptInt(b *strings.Builder, label string, v *int) {
	if v != nil {
		fmt.Fprintf(b, "- %s: %d\n", label, *v)
	}
}

func writeOptString(b *strings.Builder, label string, v *string) {
	if v != nil && *v != "" {
		fmt.Fprintf(b, "- %s: %s\n", label, *v)
	}
}
