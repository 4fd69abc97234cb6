package content

// Default returns the built-in copy.
func Default() *Content {
	return &Content{
		Company: "HomeKey Home Buyers",
		Phone:   "(555) 010-4663",
		Hero: Hero{
			Headline:    "Sell your house fast. Get a fair cash offer.",
			Subheadline: "No repairs, no agents, no fees. Close on your schedule.",
			About: `**{{company}}** is a local, family-run home buying company.
We purchase houses **as-is** for cash, in any condition.

- No commissions or closing costs
- No cleaning, staging or showings
- Close in as little as 7 days, or wait until you are ready

Questions? Call us at **{{phone}}**.`,
		},
		ValueProps: []Card{
			{Title: "Cash Offer in 24 Hours", Body: "Tell us about the property and get a no-obligation offer within a day."},
			{Title: "Sell As-Is", Body: "Leave the repairs, clutter and old furniture. We handle all of it."},
			{Title: "Zero Fees", Body: "No agent commissions and we cover the standard closing costs."},
			{Title: "You Pick the Date", Body: "Close in a week or in a few months. The timeline is yours."},
		},
		Steps: []Card{
			{Title: "Tell us about your house", Body: "Fill out the short form with your address and a few details."},
			{Title: "Get your cash offer", Body: "We review local sales and send a fair written offer, usually within 24 hours."},
			{Title: "Close and get paid", Body: "Pick a closing date. We handle the paperwork and you get paid at closing."},
		},
		Badges: []Badge{
			{Label: "A+ Rated", Detail: "Better Business Bureau accredited"},
			{Label: "500+ Homes Bought", Detail: "Across the region since 2012"},
			{Label: "Licensed Title Partners", Detail: "Every closing handled by a local title company"},
			{Label: "4.9 ★ Reviews", Detail: "From homeowners we have worked with"},
		},
		FAQ: []FAQ{
			{
				Question: "How do you determine your offer?",
				Answer:   "We look at the location, the condition of the house, and recent sales of similar homes nearby. Then we subtract the cost of repairs we will make after buying.",
			},
			{
				Question: "Are there any fees or commissions?",
				Answer:   "No. There are **no agent commissions** and {{company}} pays the standard closing costs. The offer you accept is the amount you receive.",
			},
			{
				Question: "Do I need to make repairs or clean?",
				Answer:   "Not at all. We buy houses as-is. Take what you want and leave the rest.",
			},
			{
				Question: "How fast can you close?",
				Answer:   "In as little as **7 days**. If you need more time, we can set any closing date that works for you.",
			},
			{
				Question: "Am I obligated to accept the offer?",
				Answer:   "No. Our offers are free and carry no obligation. Call {{phone}} any time with questions.",
			},
		},
		Success: Success{
			Title:   "Thanks, {{first_name}}!",
			Message: "Your request is in. A member of the {{company}} team will call you within 24 hours with your cash offer. Need us sooner? Call {{phone}}.",
		},
		Splash: "Finding the fastest way home...",
	}
}
