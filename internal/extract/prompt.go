package extract

import (
	"fmt"
	"time"
)

const systemPrompt = `You are a data extraction engine.
You output ONLY valid JSON.
No explanations. No markdown.`

// userPrompt embeds the transcript, the current date and the operating
// timezone into the fixed extraction contract. The contract pins the exact
// JSON shape, the default-URGENT rule and the VP-disclaimer rule; ambiguous
// input must yield an empty array, never a guess.
func userPrompt(transcript string, today time.Time, tz string) string {
	return fmt.Sprintf(`Extract veterinarian availability slots from the Ukrainian transcript.

Context:
- Language: Ukrainian
- Timezone: %s
- Today is %s in timezone %s
- Planning window: from today up to 31 days ahead
- Slot types:
  - URGENT = короткі / термінові консультації
  - VP = вузькопрофільні / розгорнуті консультації

Output format:
Return a JSON array. Each item MUST match EXACTLY:

{
  "date": "YYYY-MM-DD",
  "startTime": "HH:mm",
  "endTime": "HH:mm",
  "type": "URGENT" | "VP"
}

Rules:
1. Output JSON ONLY.
2. Parse Ukrainian date expressions:
   - "сьогодні", "завтра", "післязавтра"
   - weekdays: "понеділок", "вівторок", etc.
3. Parse Ukrainian time expressions:
   - "з 10 до 13"
   - "з десятої до тринадцятої"
4. Default slot type is URGENT unless VP is clearly stated.
5. If transcript says VP is unavailable (e.g. "ВП не беру", "тільки ургент"), DO NOT create VP slots.
6. Round time:
   - startTime → down to HH:00
   - endTime → up to HH:00
7. If endTime ≤ startTime, discard slot.
8. If information is ambiguous or missing, return [].

Transcript:
%s`, tz, today.Format("2006-01-02"), tz, transcript)
}
