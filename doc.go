// Package treebank splits, predicts and scores CoNLL-U dependency treebanks.
//
// # Quick Start
//
//	gold, err := conllu.ReadFile("test.conllu")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	system, err := treebank.Predict(ctx, gold, tagger.NewHTTP(endpoint, 0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	scores, err := treebank.Score(gold, system)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(scores) // UAS: 81.25%  LAS: 74.10%
//
// # Alignment
//
// Gold and system sentences are paired by position, and so are the tokens
// inside each pair. Multiword spans and empty nodes are ignored. When the
// system side has fewer tokens, only the overlapping prefix is scored;
// this is a documented policy, not an error.
//
// Predict never produces a sentence that vanishes on disk: a projection
// left without comments or tokens carries a "# text = ..." comment.
//
// # Thread Safety
//
// Split, Project and Score are pure functions over values they do not
// retain. Predict tags sentences concurrently, so the Tagger it receives
// must be safe for concurrent use.
package treebank
