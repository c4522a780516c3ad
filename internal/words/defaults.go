package words

// Built-in pools used until the user populates their own.

func defaultWords() []string {
	return []string{
		"the", "quick", "brown", "fox", "jumps", "over", "lazy", "dog",
		"about", "above", "across", "after", "again", "against", "almost",
		"alone", "along", "already", "always", "among", "animal", "answer",
		"appear", "around", "because", "become", "before", "begin", "behind",
		"believe", "below", "between", "board", "bring", "build", "carry",
		"change", "children", "close", "cold", "common", "complete", "country",
		"course", "cover", "cross", "decide", "different", "direct", "draw",
		"during", "early", "earth", "enough", "every", "example", "family",
		"father", "field", "figure", "follow", "found", "friend", "ground",
		"group", "happen", "heard", "horse", "house", "hundred", "island",
		"large", "learn", "leave", "letter", "light", "listen", "little",
		"machine", "measure", "money", "morning", "mountain", "music", "never",
		"night", "north", "notice", "number", "object", "often", "order",
		"paper", "pattern", "people", "picture", "piece", "place", "plant",
		"point", "power", "product", "question", "reach", "ready", "river",
		"round", "school", "second", "sentence", "several", "short", "should",
		"simple", "since", "small", "sound", "south", "space", "stand",
		"start", "state", "still", "story", "study", "system", "table",
		"thing", "think", "those", "thought", "three", "through", "together",
		"toward", "travel", "under", "until", "usual", "voice", "water",
		"where", "which", "while", "white", "whole", "world", "would",
		"write", "young",
	}
}

func defaultPhrases() []string {
	return []string{
		"The quick brown fox jumps over the lazy dog.",
		"Practice makes perfect, but nobody is perfect.",
		"Typing fast is useless if half the words are wrong.",
		"Simplicity is the ultimate sophistication.",
		"A journey of a thousand miles begins with a single step.",
		"Measure twice, cut once.",
		"The best time to plant a tree was twenty years ago.",
		"Slow is smooth, and smooth is fast.",
		"Well begun is half done.",
		"Fortune favors the prepared mind.",
	}
}
