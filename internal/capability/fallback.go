package capability

// Deterministic stand-in texts used when the requested capability is not
// registered (binary missing, no API key, unknown model name). Degraded
// operation is a supported mode, not a failure: the pipeline still runs
// to completion and the demo stays usable without any model installed.

// FallbackTranscript is the transcript substituted when no transcription
// capability is available.
const FallbackTranscript = `Welcome everyone to today's quarterly review meeting. I'm Sarah, the project manager, and I'll be leading today's discussion.

First, let's review our Q3 performance. John, could you share the sales numbers?

John: Absolutely, Sarah. We exceeded our Q3 targets by 15%. Total revenue was $2.3 million, which is up from $2 million last quarter. Our new product line contributed significantly to this growth.

Sarah: That's excellent news! Marketing team, how did our campaigns perform?

Lisa: Our digital marketing campaigns had a 23% increase in engagement. The social media strategy we implemented in August really paid off. We saw a 40% increase in qualified leads.

Sarah: Great work, Lisa. Now, let's discuss the challenges we faced. Mike, can you update us on the technical issues?

Mike: We had some server downtime in September that affected about 200 customers. We've since upgraded our infrastructure and implemented better monitoring. The issue is resolved, and we have preventive measures in place.

Sarah: Thank you, Mike. Looking ahead to Q4, our main priorities are: launching the mobile app, expanding to two new markets, and improving customer retention by 10%.

Action items: John will prepare the Q4 sales forecast by Friday. Lisa will present the Q4 marketing strategy next week. Mike will complete the infrastructure audit by month-end.

Any questions before we wrap up? Great, thank you everyone for your hard work this quarter.`

// FallbackSummary is the summary substituted when no summarization
// capability is available.
const FallbackSummary = `**Meeting Summary:**

The quarterly review meeting covered Q3 performance, challenges, and Q4 planning. Key highlights include:

**Performance:**
- Exceeded Q3 targets by 15% with $2.3M revenue
- Digital marketing engagement increased by 23%
- Social media strategy resulted in 40% more qualified leads

**Challenges:**
- Server downtime in September affected 200 customers
- Infrastructure has been upgraded with better monitoring

**Q4 Priorities:**
- Launch mobile application
- Expand to two new markets
- Improve customer retention by 10%`
