/*
Package archive builds shar-style self-extracting shell archives.

	+-----------+     +-----------+     +-----------+     +------------+     +-----------+
	|  header   | --> | prescript | --> | block * N | --> | postscript | --> |  footer   |
	| (fixed)   |     | (verbatim)|     | (per file)|     | (verbatim) |     | (fixed)   |
	+-----------+     +-----------+     +-----+-----+     +------------+     +-----------+
	                                          |
	                                    +-----+-----+
	                                    |    b64    |
	                                    |  encoder  |
	                                    +-----------+

🎯 Purpose:
  - Turn a list of files plus optional pre/post shell snippets into one POSIX
    shell script that recreates those files when run
  - Keep the output deterministic: same inputs, byte-identical archive

🔄 Flow:
 1. Validate the request (path list present, paths safe to single-quote)
 2. Read each file in input order, fully into memory
 3. Encode each file and render its block (optionally in parallel)
 4. Concatenate header, prescript, blocks, postscript and footer

⚠️ Failure policy:
  - File open/read/seek errors skip the file when IgnoreFileErrors is set and
    abort the build otherwise
  - Allocation and formatting errors always abort
  - Any abort returns a *BuildError and no text

🔍 Example:

	b := archive.New(archive.WithConcurrency(4))
	text, err := b.BuildStrict(ctx, "", "", []string{"greeting.txt"})
	if errors.Is(err, archive.ErrFile) {
		// one of the inputs could not be read
	}

The generated script looks for a base64 executable in /bin, /usr/bin,
/usr/local/bin and the current directory when it runs; the builder never
checks for it.
*/
package archive
