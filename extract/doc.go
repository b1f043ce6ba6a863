// Package extract turns generated copy into structured data.
//
// Templates such as email_subject_line, tagline_slogan, faq_generator and
// blog_post_outline ask the model for lists, question and answer pairs, or
// headed sections. Parse recovers those shapes from the returned text:
//
//	s := extract.Parse(result.Content)
//	for _, line := range s.Items {
//	    fmt.Println(line)
//	}
//
// Fenced ```json and ```yaml blocks, and standalone JSON lines, are decoded
// into Data. Everything is best-effort; text that does not match a shape
// yields an empty field rather than an error.
package extract
