// Package cover chooses cover texts for the tag channel.
//
// A payload of n bytes needs roughly EstimatedTagCount(n) tags and, at two
// tags per visible character, RequiredVisibleChars(n) characters of cover.
// StealthRatio turns that into a 0..100 score shown to users before sending.
// RecommendTags draws a poem that holds an exact tag count from a
// language-tagged corpus; Recommend does the same from the estimate. The
// built-in corpus holds classical Persian and public-domain English verse.
package cover
