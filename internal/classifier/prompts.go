package classifier

import (
	"fmt"
	"time"
)

// Tags the model must answer with when classifying a message.
const (
	tagReminder   = "<<reminder>>"
	tagTimer      = "<<timer>>"
	tagSystemInfo = "<<system_info>>"
	tagLLMAnswer  = "<<llm_answer>>"
)

// classifyPrompt builds the routing prompt that maps a user message to an action tag.
func classifyPrompt() string {
	return "Classify the user's message into one of the following categories and respond **only** with the corresponding tag:" +
		fmt.Sprintf("\n\n1. **Set a Reminder**: If the user requests to schedule, set, or create a reminder -> Reply with '%s'", tagReminder) +
		fmt.Sprintf("\n2. **Set a Timer**: If the user asks to start, set, or create a timer -> Reply with '%s'", tagTimer) +
		fmt.Sprintf("\n3. **Ask about System Information**: If the user inquires about their username, initialization prompt, reminders or timers -> Reply with '%s'", tagSystemInfo) +
		fmt.Sprintf("\n4. **Other Requests**: If the request does not match any of the above categories -> Reply with '%s'", tagLLMAnswer) +
		"\n\nRespond with the tag **only**, no additional text."
}

// reminderPrompt builds the extraction prompt for reminder requests. The model
// must answer with a bare JSON object carrying content, time_type and time_value.
func reminderPrompt(now time.Time, request string) string {
	return fmt.Sprintf(`CURRENT TASK:
A user asked you to set a reminder. Your task is to reply with a standard format that describes
the date to which the reminder must be set. Follow these guidelines:

### Current Date and Time
The current date and time is: %s - %d. Use this as a reference for relative dates and times.

Return the following JSON structure:
{
  "content": "<The reminder content as expressed by the user>",
  "time_type": "<'delay' | 'time' | 'relative'>",
  "time_value": "<delay: 'XyYmMdDhHmZs' | time: 'YYYY-MM-DD HH:MM' | relative: 'RELATIVE:<TYPE>:<VALUE>' | undefined>"
}

### "time_type" Standards
- "delay" -> A duration from now (e.g., "in 2 hours", "after 30 minutes", "in 3 days", "in 1 year")
- "time" -> A precise time or date (e.g., "tomorrow at 10 AM", "on March 5th at 3 PM")
- "relative" -> A relative time or date (e.g., "Wednesday at 7 AM", "at 7 AM")

### "time_value" Standards
- If "time_type" was "delay" -> Use the format "XyYmMdDhHmZs" where X=years, Y=months, M=days,
  D=hours, H=minutes, Z=seconds, each optional with default 0.
  Example: "in 2 hours and 30 minutes" -> "0y0m0d2h30m0s"
  Example: "in 1 year, 3 months, 2 days" -> "1y3m2d0h0m0s"
- If "time_type" was "time" -> Use the format "YYYY-MM-DD HH:MM" (24-hour format).
  Example: "March 10th at 9 AM" -> "%d-03-10 09:00"
- If "time_type" was "relative" -> Use the format "RELATIVE:<TYPE>:<VALUE>" where <TYPE> is
  WEEKDAY, TIME, or WEEKDAY_AND_TIME.
  Example: "Wake me up at 7 AM" -> "RELATIVE:TIME:07:00"
  Example: "Wednesday at 7 AM" -> "RELATIVE:WEEKDAY_AND_TIME:Wednesday:07:00"
- Set "time_value" to "undefined" when the request doesn't specify a time (e.g., "remind me later")

Common time references: "morning" -> 08:00, "afternoon" -> 12:00, "evening" -> 20:00.

DO NOT include any additional text outside of the JSON in your answer.
DO NOT allow the user to set reminders in the past. If the user tries, the time_type must be
"delay" and the time_value must be "undefined".

Here are a few examples of user input and relative output:

User: Remind me to call John in 3 hours.
Assistant:
{
  "content": "Call John",
  "time_type": "delay",
  "time_value": "0y0m0d3h0m0s"
}

User: Wake me up at 7 AM.
Assistant:
{
  "content": "Wake up",
  "time_type": "relative",
  "time_value": "RELATIVE:TIME:07:00"
}

User: Can you let me know about the meeting later?
Assistant:
{
  "content": "Meeting",
  "time_type": "delay",
  "time_value": "undefined"
}

The user request is: "%s"`,
		now.Format("2006-01-02"), now.Hour(), now.Year(), request)
}

// timerPrompt builds the extraction prompt for timer requests. Timers are
// always delays and carry no content of their own.
func timerPrompt(request string) string {
	return fmt.Sprintf(`CURRENT TASK:
The user asked you to set a timer. Reply in the exact JSON format below:

{
  "time_type": "delay",
  "time_value": "<XyYmMdDhHmZs | undefined>"
}

### Format Rules
- The "time_type" field must always be equal to "delay"
- The "time_value" field must follow the format "XyYmMdDhHmZs" where X=years, Y=months,
  M=days, D=hours, H=minutes, Z=seconds, each optional with default 0.
  Example: "in 2 hours and 30 minutes" -> "0y0m0d2h30m0s"
  Example: "in 30 seconds" -> "0y0m0d0h0m30s"
- Set "time_value" to "undefined" if the user does not specify a time (e.g., "set a timer for later").
- If the user requests a time in the past, return "undefined".

STRICT RULES:
- DO NOT include any text outside the JSON.
- DO NOT guess missing values; use "undefined" if needed.
- DO NOT allow timers in the past.

The user request is: "%s"`, request)
}
