package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// answerPayloadLimit is the serialized-row size above which synthesis is
// skipped entirely. Large payloads make for poor summaries and expensive
// completion calls.
const answerPayloadLimit = 600

// TooMuchDataMessage is returned instead of a synthesized answer when the
// reduced rows are too large to summarise.
const TooMuchDataMessage = "That's a lot of data! Here are the raw results. Ask for something more specific if you want a summary."

const synthesizerSystemPrompt = `You are a question answer bot. The user will provide some match data and their original question.
Your task is to frame an answer that is relevant to the question and the data provided.
Format using only simple emphasis, lists and quotes. Never use headers.`

const synthesizerUserPromptFmt = `This is the original question: %s
And this is the query result: %s

Frame an answer out of these.`

// serializeRows renders reduced rows for the synthesis prompt and the size
// estimate. Non-primitive values are carried via their string form; dates
// keep their day precision.
func serializeRows(rows []Row) string {
	flat := make([]map[string]any, len(rows))
	for i, row := range rows {
		m := make(map[string]any, len(row))
		for k, v := range row {
			switch val := v.(type) {
			case time.Time:
				m[k] = val.Format("2006-01-02")
			case []byte:
				m[k] = string(val)
			case string, bool, float64, float32, int, int32, int64, uint, uint32, uint64, nil:
				m[k] = val
			default:
				m[k] = fmt.Sprintf("%v", val)
			}
		}
		flat[i] = m
	}

	b, err := json.Marshal(flat)
	if err != nil {
		return fmt.Sprintf("%v", flat)
	}
	return string(b)
}

// synthesize turns the reduced rows into prose. The boolean result reports a
// size short-circuit, in which case no completion call was made.
func (p *Pipeline) synthesize(ctx context.Context, question string, rows []Row) (string, bool, error) {
	payload := serializeRows(rows)
	if len(payload) > answerPayloadLimit {
		p.logger.WithField("payload_chars", len(payload)).Info("skipping synthesis, payload too large")
		return TooMuchDataMessage, true, nil
	}

	p.metrics.CountCompletionCall()
	answer, err := p.llm.Complete(ctx, synthesizerSystemPrompt,
		fmt.Sprintf(synthesizerUserPromptFmt, question, payload))
	if err != nil {
		return "", false, stageError(StageSynthesis, err)
	}
	return answer, false, nil
}
