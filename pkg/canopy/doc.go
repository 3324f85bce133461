// Package canopy provides zero-shot attitude and subject classification
// for discussion trees.
//
// Quick start:
//
//	c, err := canopy.New(canopy.WithModelDir("models/"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer c.Close()
//
//	a, _ := c.Classify(ctx, "Totally agree, this is great!")
//	fmt.Println(a.Attitude, a.Subject) // Agreement Discussion
//
// The Canopy instance is safe for concurrent use. Create once, reuse
// across requests.
package canopy
