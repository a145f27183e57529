package window

import "math/rand/v2"

// Quote is shown on the alert and rest screens of a session.
type Quote struct {
	Text   string
	Author string
}

var quotes = []Quote{
	{"The only true wisdom is in knowing you know nothing.", "Socrates"},
	{"Knowing yourself is the beginning of all wisdom.", "Aristotle"},
	{"It is not length of life, but depth of life.", "Ralph Waldo Emerson"},
	{"We are what we repeatedly do. Excellence, then, is not an act, but a habit.", "Aristotle"},
	{"The soul becomes dyed with the colour of its thoughts.", "Marcus Aurelius"},
	{"No man is free who is not master of himself.", "Epictetus"},
	{"Waste no more time arguing about what a good man should be. Be one.", "Marcus Aurelius"},
	{"Time is the most valuable thing a man can spend.", "Theophrastus"},
	{"Rest is not idleness.", "John Lubbock"},
	{"He who has a why to live can bear almost any how.", "Nietzsche"},
}

func randomQuote() Quote {
	return quotes[rand.IntN(len(quotes))]
}

func (quote Quote) String() string {
	return "“" + quote.Text + "”\n" + quote.Author
}
