// 27 april 2020

/*
Msaqc scores multiple sequence alignments and ranks them.

For each alignment file it computes the average gap percentage, the
average match percentage (how often a column's most common residue
occurs) and the average Shannon entropy per column, in bits. Entropy
is computed over the residues only. Gaps have their own number, so a
sparse but conserved column still looks conserved.

Given several alignments of the same sequences, typically one per
aligner, it prints them ranked by average entropy, lowest first.
Lower entropy means higher conservation. Ties are broken on the name,
so the output is stable.

With -run, the inputs are unaligned fasta files (or directories of
them) and the external aligners are run first. t_coffee, mafft and
clustalo must be on the path for that. Their outputs are written as
<input>_<tool>.fasta in the directory given with -d and then scored.
An aligner falling over, or one broken alignment file, is reported
and skipped. The remaining alignments are still compared.

Usage:

	msaqc [flags] alignment.fasta...
	msaqc -run [flags] sequences.fasta...

The flags are:

	-run
		Run the aligners first. Arguments are unaligned fasta files
		or directories containing them.
	-tools list
		Comma separated subset of tcoffee,mafft,clustal. Default all.
	-d dir
		Directory for aligner output files. Default the current one.
	-gaps set
		Symbols treated as gaps. Default "-". Use "-." if your files
		use dots too.
	-o file
		Write the report to a file instead of standard output.
	-csv file
		Also write the comparison as csv.
	-db file
		Append the scores to an sqlite history database, one run id
		per invocation.
	-plot file
		Write a png conservation profile of the best alignment.
	-font file
		Ttf font used to label the plot. Without it the plot has no
		text.
	-j n
		Threads handed to the aligners.
	-t
		Print timing information.
*/
package main
