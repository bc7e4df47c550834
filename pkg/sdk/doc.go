// Package matchd embeds the candidate ranking, Magic Match and reciprocity
// engine in-process, without the HTTP server.
//
// By default the client keeps profiles and interactions in memory:
//
//	store := matchd.NewMemoryStore()
//	_ = store.PutProfile(matchd.Profile{ID: "u1", Name: "Maria", Completed: true,
//	    Location: matchd.Location{City: "Athens", Area: "Kifisia"}})
//
//	client, _ := matchd.New(matchd.WithMemoryStore(store))
//	ranked, _ := client.Rank(ctx, "u1", matchd.SortNearby, 20)
//	pick, _ := client.MagicMatch(ctx, "u1")
//	out, _ := client.RecordAction(ctx, "u1", pick.Candidate.ID, matchd.Yes, matchd.OriginMagicMatch)
//
// Plug your own storage with WithProfileSource and WithInteractionStore, and
// a generative model with WithPicker or WithOpenAI. Without a picker Magic
// Match always resolves from the ranked list.
package matchd
